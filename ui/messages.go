package ui

import (
	"github.com/drake/chartform/session"
)

// SnapshotMsg carries a committed form state from the session loop.
type SnapshotMsg session.Snapshot
