package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/goliatone/go-repoforms/internal/repository/fixtures"
)

// Import writes a fixture set in one transaction. Rows whose key already
// exists are left alone, and the id sequences are moved past the imported
// ids.
func (r *Repository) Import(ctx context.Context, set fixtures.Set) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		for _, ct := range set.ContentTypes {
			names, defs, err := encodeContentType(ct)
			if err != nil {
				return err
			}
			query, args, err := psql.Insert(tableContentTypes).
				Columns("id", "identifier", "main_language_code", "names", "field_definitions").
				Values(ct.ID, ct.Identifier, ct.MainLanguageCode, names, defs).
				Suffix("ON CONFLICT DO NOTHING").
				ToSql()
			if err != nil {
				return fmt.Errorf("error building query: %w", err)
			}
			if _, err := tx.Exec(ctx, query, args...); err != nil {
				return fmt.Errorf("postgres: import content type %q: %w", ct.Identifier, err)
			}
		}

		for _, loc := range set.Locations {
			var parent any
			if loc.ParentLocationID > 0 {
				parent = loc.ParentLocationID
			}
			var contentID any
			if loc.ContentID > 0 {
				contentID = loc.ContentID
			}
			query, args, err := psql.Insert(tableLocations).
				Columns("id", "content_id", "parent_location_id", "path_string", "hidden").
				Values(loc.ID, contentID, parent, loc.PathString, loc.Hidden).
				Suffix("ON CONFLICT DO NOTHING").
				ToSql()
			if err != nil {
				return fmt.Errorf("error building query: %w", err)
			}
			if _, err := tx.Exec(ctx, query, args...); err != nil {
				return fmt.Errorf("postgres: import location %d: %w", loc.ID, err)
			}
		}

		for _, c := range set.Contents {
			if c.VersionNo == 0 {
				c.VersionNo = 1
			}
			if c.RemoteID == "" {
				c.RemoteID = r.remoteID()
			}
			var mainLocation any
			if c.MainLocationID > 0 {
				mainLocation = c.MainLocationID
			}
			query, args, err := psql.Insert(tableContents).
				Columns("id", "remote_id", "content_type_identifier", "main_language_code", "main_location_id", "published").
				Values(c.ID, c.RemoteID, c.ContentTypeIdentifier, c.MainLanguageCode, mainLocation, c.Published).
				Suffix("ON CONFLICT DO NOTHING").
				ToSql()
			if err != nil {
				return fmt.Errorf("error building query: %w", err)
			}
			if _, err := tx.Exec(ctx, query, args...); err != nil {
				return fmt.Errorf("postgres: import content %d: %w", c.ID, err)
			}

			fields, err := json.Marshal(c.Fields)
			if err != nil {
				return fmt.Errorf("postgres: encode fields: %w", err)
			}
			query, args, err = psql.Insert(tableContentVersions).
				Columns("content_id", "version_no", "fields").
				Values(c.ID, c.VersionNo, fields).
				Suffix("ON CONFLICT DO NOTHING").
				ToSql()
			if err != nil {
				return fmt.Errorf("error building query: %w", err)
			}
			if _, err := tx.Exec(ctx, query, args...); err != nil {
				return fmt.Errorf("postgres: import version of content %d: %w", c.ID, err)
			}
		}

		for _, table := range []string{tableContentTypes, tableLocations, tableContents} {
			stmt := fmt.Sprintf("SELECT setval(pg_get_serial_sequence('%[1]s', 'id'), GREATEST((SELECT MAX(id) FROM %[1]s), 1))", table)
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("postgres: reset %s sequence: %w", table, err)
			}
		}

		r.logger.Info("fixtures imported",
			zap.Int("contentTypes", len(set.ContentTypes)),
			zap.Int("locations", len(set.Locations)),
			zap.Int("contents", len(set.Contents)),
		)
		return nil
	})
}
