package lvm

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/raoulx24/lvsnap/internal/snapshot"
)

// separator splits report columns. It cannot appear in LV or VG names.
const separator = "$"

// reportFields is the column order requested from lvs.
var reportFields = []string{
	"vg_name",
	"lv_name",
	"lv_uuid",
	"origin",
	"origin_uuid",
	"pool_lv",
	"lv_time",
	"lv_attr",
	"lv_size",
}

// lv_time layouts, the first one is the lvm2 default.
var timeLayouts = []string{
	"2006-01-02 15:04:05 -0700",
	"2006-01-02 15:04:05 MST",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

func reportArgs(vg string) []string {
	args := []string{
		"--noheadings",
		"--separator=" + separator,
		"-o", strings.Join(reportFields, ","),
	}
	if vg != "" {
		args = append(args, vg)
	}
	return args
}

// parseReport turns lvs output into one Snapshot per LV. Rows that are not
// snapshots come back with an empty Origin and OriginUUID.
func parseReport(out []byte) ([]snapshot.Snapshot, error) {
	var lvs []snapshot.Snapshot

	sc := bufio.NewScanner(bytes.NewReader(out))
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}

		cols := strings.Split(text, separator)
		if len(cols) != len(reportFields) {
			return nil, fmt.Errorf("report line %d: expected %d columns, got %d", line, len(reportFields), len(cols))
		}
		row := make(map[string]string, len(cols))
		for i, c := range cols {
			row[reportFields[i]] = strings.TrimSpace(c)
		}

		created, err := parseTime(row["lv_time"])
		if err != nil {
			return nil, fmt.Errorf("report line %d (%s): %w", line, row["lv_name"], err)
		}

		lv := snapshot.Snapshot{
			Name:       row["lv_name"],
			VG:         row["vg_name"],
			UUID:       row["lv_uuid"],
			Origin:     row["origin"],
			OriginUUID: row["origin_uuid"],
			Pool:       row["pool_lv"],
			Created:    created,
			Attrs:      map[string]string{},
		}
		for _, k := range []string{"lv_attr", "lv_size"} {
			if v := row[k]; v != "" {
				lv.Attrs[k] = v
			}
		}
		lvs = append(lvs, lv)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading report: %w", err)
	}
	return lvs, nil
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("missing creation time")
	}
	if secs, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(secs, 0), nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised creation time %q", s)
}
