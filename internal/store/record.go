package store

// Record is one tracked job application. IDs are assigned by the store
// and are immutable after creation.
type Record struct {
	ID          int    `json:"id"`
	Company     string `json:"company"`
	Title       string `json:"title"`
	Docs        string `json:"docs"`
	Location    string `json:"location"`
	DateApplied string `json:"date_applied"`
	Answer      string `json:"answer"`
}

// Fields holds the caller-supplied parts of a new record. DateApplied
// may be empty, in which case the store fills in the current date.
type Fields struct {
	Company     string
	Title       string
	Docs        string
	Location    string
	DateApplied string
}

// DateLayout is the calendar date format used throughout: 2006-01-02.
const DateLayout = "2006-01-02"
