// Package synth generates seeded synthetic CloudTrail datasets for exercising
// hunts without real evidence. Baseline traffic is mixed with events matching
// ten threat archetypes, then the whole set is written as CSV in the layout
// the event store loads.
package synth

import (
	"encoding/csv"
	"fmt"
	"io"
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Options control dataset size and makeup. The zero value generates 1000
// records with a 20% threat share across the 2023 calendar year, seed 42.
type Options struct {
	// Records is the target dataset size. Per-archetype counts are floored,
	// so the output can fall a few records short of the target.
	Records int

	// ThreatRatio is the share of records drawn from threat archetypes.
	ThreatRatio float64

	// NoThreats generates baseline traffic only.
	NoThreats bool

	// Seed makes output reproducible. Zero means 42.
	Seed int64

	// Start and End bound the event timestamps.
	Start time.Time
	End   time.Time
}

func (o Options) withDefaults() Options {
	if o.Records == 0 {
		o.Records = 1000
	}
	if o.ThreatRatio == 0 {
		o.ThreatRatio = 0.2
	}
	if o.Seed == 0 {
		o.Seed = 42
	}
	if o.Start.IsZero() {
		o.Start = time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	if o.End.IsZero() {
		o.End = time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)
	}
	return o
}

// Event is one synthetic CloudTrail record. Empty fields become empty CSV
// cells, which the event store loads as NULL.
type Event struct {
	EventTime        string
	EventName        string
	EventSource      string
	SourceIP         string
	UserAgent        string
	ErrorCode        string
	ErrorMessage     string
	Region           string
	IdentityType     string
	UserName         string
	ARN              string
	AccountID        string
	InstanceType     string
	BucketName       string
	AccessKeyID      string
	EventID          string
	ReadOnly         string
	Resources        string
	RecipientAccount string
}

func (e Event) row() []string {
	return []string{
		e.EventTime, e.EventName, e.EventSource, e.SourceIP, e.UserAgent,
		e.ErrorCode, e.ErrorMessage, e.Region, e.IdentityType, e.UserName,
		e.ARN, e.AccountID, e.InstanceType, e.BucketName, e.AccessKeyID,
		e.EventID, e.ReadOnly, e.Resources, e.RecipientAccount,
	}
}

// Columns returns the CSV header in write order.
func Columns() []string {
	return []string{
		"eventTime", "eventName", "eventSource", "sourceIPAddress", "userAgent",
		"errorCode", "errorMessage", "awsRegion", "userIdentitytype",
		"userIdentityuserName", "userIdentityarn", "userIdentityaccountId",
		"requestParametersinstanceType", "requestParametersbucketName",
		"responseElementsaccessKeyId", "eventID", "readOnly", "resources",
		"recipientAccountId",
	}
}

// Generator produces one dataset per instance. It is not safe for concurrent
// use; the seeded source makes draws order-dependent.
type Generator struct {
	opts Options
	rng  *rand.Rand
}

func New(opts Options) *Generator {
	opts = opts.withDefaults()
	return &Generator{
		opts: opts,
		rng:  rand.New(rand.NewSource(opts.Seed)),
	}
}

// Events generates the dataset: threat events first (evenly split across
// archetypes), then baseline traffic, shuffled and ordered by timestamp.
func (g *Generator) Events() []Event {
	normal := g.opts.Records
	events := make([]Event, 0, g.opts.Records)

	if !g.opts.NoThreats {
		threats := int(float64(g.opts.Records) * g.opts.ThreatRatio)
		normal = g.opts.Records - threats

		perType := threats / len(ThreatTypes())
		for _, tt := range ThreatTypes() {
			for i := 0; i < perType; i++ {
				events = append(events, g.threatEvent(tt))
			}
		}
	}

	for i := 0; i < normal; i++ {
		events = append(events, g.normalEvent())
	}

	g.rng.Shuffle(len(events), func(i, j int) {
		events[i], events[j] = events[j], events[i]
	})
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].EventTime < events[j].EventTime
	})
	return events
}

// WriteCSV generates the dataset and writes it with a header row. It returns
// the number of records written.
func (g *Generator) WriteCSV(w io.Writer) (int, error) {
	events := g.Events()

	cw := csv.NewWriter(w)
	if err := cw.Write(Columns()); err != nil {
		return 0, fmt.Errorf("write header: %w", err)
	}
	for _, e := range events {
		if err := cw.Write(e.row()); err != nil {
			return 0, fmt.Errorf("write record: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return 0, fmt.Errorf("flush: %w", err)
	}
	return len(events), nil
}

func (g *Generator) pick(values []string) string {
	return values[g.rng.Intn(len(values))]
}

func (g *Generator) ip() string {
	return fmt.Sprintf("%d.%d.%d.%d",
		1+g.rng.Intn(255), g.rng.Intn(256), g.rng.Intn(256), 1+g.rng.Intn(255))
}

func (g *Generator) accountID() string {
	return fmt.Sprintf("%d", 100000000+g.rng.Intn(900000000))
}

func (g *Generator) timestamp() string {
	window := int64(g.opts.End.Sub(g.opts.Start) / time.Second)
	offset := g.rng.Int63n(window + 1)
	return g.opts.Start.Add(time.Duration(offset) * time.Second).Format("2006-01-02T15:04:05Z")
}

// eventID draws from the seeded source so datasets stay reproducible.
func (g *Generator) eventID() string {
	return uuid.Must(uuid.NewRandomFromReader(g.rng)).String()
}
