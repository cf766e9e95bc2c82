package round

import (
	"bytes"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/quiniela/internal/domain/fixture"
)

// Round is one named group of fixtures as stored from the upstream feed. Data holds the raw
// feed object (normally {"events": [...]}) untouched.
type Round struct {
	Label     string
	Number    int
	Data      []byte
	UpdatedAt time.Time
}

// Payload assembles the results feed document out of stored rounds. Rounds whose data is not
// a JSON value are left out and reported.
func Payload(items []Round) (fixture.RoundsPayload, []error) {
	out := make(fixture.RoundsPayload, len(items))
	var skipped []error
	for _, item := range items {
		data := bytes.TrimSpace(item.Data)
		if len(data) == 0 {
			out[item.Label] = map[string]any{}
			continue
		}

		var decoded any
		if err := sonic.Unmarshal(data, &decoded); err != nil {
			skipped = append(skipped, crerr.Wrapf(err, "decode round %q", item.Label))
			continue
		}
		out[item.Label] = decoded
	}
	return out, skipped
}
