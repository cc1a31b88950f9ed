package natsgath

import (
	"github.com/nats-io/nats.go"
)

// New creates a NATS gatherer that streams responses to the given inbox subject.
func New(nc *nats.Conn, gradeUuid string, inbox string) *natsGatherer {
	return &natsGatherer{
		nc:        nc,
		inbox:     inbox,
		gradeUuid: gradeUuid,
	}
}
