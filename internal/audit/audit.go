// Package audit keeps a history of catalogue imports so a running viewer can
// report which data snapshot it is serving and when it was taken.
package audit

import "time"

// Entry is one import run.
type Entry struct {
	ID          string    `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	DataDir     string    `json:"dataDir"`
	Locale      string    `json:"locale"`
	Nodes       int       `json:"nodes"`
	Connections int       `json:"connections"`
	Entities    int       `json:"entities"`
	Strings     int       `json:"strings"`
	Civs        int       `json:"civs"`
	// Duplicates lists the children that had more than one parent edge,
	// as "child: dropped parent->child".
	Duplicates []string `json:"duplicates"`
}

// Filter narrows a history listing.
type Filter struct {
	Locale string
	Since  *time.Time
	Limit  int
}

const defaultLimit = 20
