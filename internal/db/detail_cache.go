package db

import (
	"time"

	"wfm-flipper/internal/wfm"
)

// GetDetail returns a cached item detail record and the time it was fetched.
// Expiry is the caller's call; the store only reports the fetch instant.
func (d *DB) GetDetail(slug string) (wfm.ItemDetail, time.Time, bool) {
	var detail wfm.ItemDetail
	var fetchedAt string
	err := d.sql.QueryRow(
		"SELECT item_id, item_type, fetched_at FROM item_details WHERE slug = ?", slug,
	).Scan(&detail.ID, &detail.ItemType, &fetchedAt)
	if err != nil {
		return wfm.ItemDetail{}, time.Time{}, false
	}
	detail.URLName = slug

	fetched, err := time.Parse(time.RFC3339, fetchedAt)
	if err != nil {
		return wfm.ItemDetail{}, time.Time{}, false
	}
	return detail, fetched, true
}

// SetDetail stores (or refreshes) an item detail record with the current
// time as its fetch instant.
func (d *DB) SetDetail(slug string, detail wfm.ItemDetail) {
	d.sql.Exec(
		`INSERT INTO item_details (slug, item_id, item_type, fetched_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(slug) DO UPDATE SET item_id = excluded.item_id,
		                                 item_type = excluded.item_type,
		                                 fetched_at = excluded.fetched_at`,
		slug, detail.ID, detail.ItemType, time.Now().UTC().Format(time.RFC3339),
	)
}

// PurgeDetailsBefore drops cached detail rows fetched before the cutoff and
// returns how many were removed.
func (d *DB) PurgeDetailsBefore(cutoff time.Time) int {
	res, err := d.sql.Exec(
		"DELETE FROM item_details WHERE fetched_at < ?",
		cutoff.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0
	}
	n, _ := res.RowsAffected()
	return int(n)
}
