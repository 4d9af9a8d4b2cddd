package store

import "dao-generator/dbrt"

// ScanUserSummary materializes a UserSummary from the current cursor row.
func ScanUserSummary(c *dbrt.Cursor) (UserSummary, error) {
	var s UserSummary

	if i := c.ColumnIndex("id"); i >= 0 {
		s.ID = c.Int64(i)
	}

	if i := c.ColumnIndex("label"); i >= 0 {
		s.Label = c.String(i)
	}

	return s, nil
}
