package models

// WarningEntry is one issued warning in a user's history
type WarningEntry struct {
	ID        string `bson:"id,omitempty" json:"id,omitempty"`
	Count     int    `bson:"count" json:"count"`
	Reason    string `bson:"reason" json:"reason"`
	WarnedBy  string `bson:"warnedBy" json:"warnedBy"`
	Timestamp string `bson:"timestamp" json:"timestamp"` // RFC 3339
}

// WarningRecord is the accumulated warning state of one user.
// Count always equals the sum of History[i].Count.
type WarningRecord struct {
	UserID  string         `bson:"_id" json:"userId"`
	Count   int            `bson:"count" json:"count"`
	History []WarningEntry `bson:"history" json:"history"`
}

// Clone returns a deep copy so callers never alias the store's history slice
func (r *WarningRecord) Clone() WarningRecord {
	out := WarningRecord{UserID: r.UserID, Count: r.Count}
	if r.History != nil {
		out.History = make([]WarningEntry, len(r.History))
		copy(out.History, r.History)
	}
	return out
}

// HistoryTotal sums the per-entry counts
func (r *WarningRecord) HistoryTotal() int {
	total := 0
	for _, e := range r.History {
		total += e.Count
	}
	return total
}
