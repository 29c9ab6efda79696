package csvkit

// Reader is a read view over a Document's resource. It is itself a
// Document derived via [Document.NewReader]: it shares the parent's
// resource reference and carries independent copies of the dialect, BOM
// policy, newline, and filter chain.
type Reader struct {
	*Document
}
