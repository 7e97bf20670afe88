package messenger

import "time"

// FormatTimestamp renders a message time the way the conversation view
// shows it: time of day for today, the word "Yesterday" for any time on
// the previous calendar day, month and day for anything older.
func FormatTimestamp(ts, now time.Time) string {
	ts = ts.In(now.Location())

	if sameDay(ts, now) {
		return ts.Format("15:04")
	}
	if sameDay(ts, now.AddDate(0, 0, -1)) {
		return "Yesterday"
	}
	return ts.Format("Jan 2")
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
