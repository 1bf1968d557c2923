package cssast

// OrphanedComment is a comment left in the cursor's comment buffer when the
// enclosing scope closed with no following unit to attach it to.
type OrphanedComment struct {
	Content  string
	Location string // "stylesheet", "rule", or "selector"
}
