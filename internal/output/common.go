package output

import (
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
)

const reportDateTimeLayout = "2006-01-02T15:04:05"

func createWriter(outputPath string) (io.Writer, *os.File, error) {
	if outputPath == "" {
		return os.Stdout, nil, nil
	}
	file, err := os.Create(outputPath)
	if err != nil {
		return nil, nil, err
	}
	return file, file, nil
}

// relativeAge renders a commit timestamp as a duration relative to the
// report's generation time, keeping output deterministic for a given report.
func relativeAge(when, now time.Time) string {
	return humanize.RelTime(when, now, "ago", "from now")
}
