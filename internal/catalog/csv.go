package catalog

import (
	"github.com/gocarina/gocsv"
)

// csvRow matches the well-formed CSV export of an offered-course report,
// where the header is the first line and captions are stable.
type csvRow struct {
	ClassID    string `csv:"CLASS ID"`
	CourseCode string `csv:"COURSE CODE"`
	Status     string `csv:"STATUS"`
	Capacity   string `csv:"CAPACITY"`
	Count      string `csv:"COUNT"`
	Title      string `csv:"COURSE TITLE"`
	Section    string `csv:"SECTION"`
	Type       string `csv:"TYPE"`
	Day        string `csv:"DAY"`
	StartTime  string `csv:"START TIME"`
	EndTime    string `csv:"END TIME"`
	Room       string `csv:"ROOM"`
	Department string `csv:"DEPARTMENT"`
}

// LoadCSV parses a well-formed CSV catalog export. The decoded rows are
// fed through the same grouping pipeline as sheet imports, so both paths
// produce identical courses.
func LoadCSV(data []byte) (*ParseResult, error) {
	var records []*csvRow
	if err := gocsv.UnmarshalBytes(data, &records); err != nil {
		return nil, err
	}

	rows := make([][]string, 0, len(records)+1)
	rows = append(rows, []string{"CLASS ID", "COURSE CODE", "STATUS", "CAPACITY", "COUNT",
		"COURSE TITLE", "SECTION", "TYPE", "DAY", "START TIME", "END TIME", "ROOM", "DEPARTMENT"})
	for _, r := range records {
		rows = append(rows, []string{r.ClassID, r.CourseCode, r.Status, r.Capacity, r.Count,
			r.Title, r.Section, r.Type, r.Day, r.StartTime, r.EndTime, r.Room, r.Department})
	}

	return ParseRows(rows)
}
