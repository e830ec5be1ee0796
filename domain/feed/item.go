package feed

import "time"

// Item is a single post in the feed. Identity is the server-assigned ID;
// the client never invents one. All identifier fields are normalized to
// int64 at the API boundary so ownership comparisons are always between
// the same numeric type.
type Item struct {
	ID            int64
	AuthorID      int64
	AuthorName    string
	Content       string
	CreatedAt     time.Time
	LikeCount     int
	LikedByViewer bool
}

// CanModify reports whether the viewer owns the item and may delete or
// edit it. Both sides are canonical int64 values; the comparison never
// crosses numeric representations.
func CanModify(item Item, viewerID int64) bool {
	return item.AuthorID == viewerID
}

// CloneList returns an independent copy of items. Screens receive these
// read-only snapshots; the synchronizer keeps exclusive ownership of the
// backing list.
func CloneList(items []Item) []Item {
	if items == nil {
		return nil
	}
	out := make([]Item, len(items))
	copy(out, items)
	return out
}
