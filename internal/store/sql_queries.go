// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	sq "github.com/Masterminds/squirrel"
)

const (
	responseCacheTable = "response_cache"

	columnCacheKey = "cache_key"
	columnValue    = "value"
	columnStoredAt = "stored_at"
)

var sqlite = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// buildGetResponseQuery selects the cached value for key. Rows stored before
// notBefore (unix milliseconds) are ignored; zero disables the check.
func buildGetResponseQuery(key string, notBefore int64) (string, []any, error) {
	query := sqlite.Select(columnValue).
		From(responseCacheTable).
		Where(sq.Eq{columnCacheKey: key})
	if notBefore > 0 {
		query = query.Where(sq.GtOrEq{columnStoredAt: notBefore})
	}
	return query.ToSql()
}

// buildSetResponseQuery upserts value under key.
func buildSetResponseQuery(key string, value []byte, storedAt int64) (string, []any, error) {
	return sqlite.Insert(responseCacheTable).
		Columns(columnCacheKey, columnValue, columnStoredAt).
		Values(key, value, storedAt).
		Suffix("ON CONFLICT(" + columnCacheKey + ") DO UPDATE SET " +
			columnValue + " = excluded." + columnValue + ", " +
			columnStoredAt + " = excluded." + columnStoredAt).
		ToSql()
}

func buildClearResponsesQuery() (string, []any, error) {
	return sqlite.Delete(responseCacheTable).ToSql()
}

// buildPruneResponsesQuery deletes rows stored before notBefore.
func buildPruneResponsesQuery(notBefore int64) (string, []any, error) {
	return sqlite.Delete(responseCacheTable).
		Where(sq.Lt{columnStoredAt: notBefore}).
		ToSql()
}
