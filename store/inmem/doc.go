// SPDX-FileCopyrightText: 2021 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package inmem provides an in-memory object store. It backs local runs and tests;
nothing is persisted.
*/
package inmem
