// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import "errors"

var (
	// ErrOpeningDB is returned when the SQLite file cannot be created, opened
	// or pinged.
	ErrOpeningDB = errors.New("failed to open database")

	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when a SELECT against the cache fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrExecutingStatement is returned when an INSERT or DELETE fails.
	ErrExecutingStatement = errors.New("failed to executing statement")
)
