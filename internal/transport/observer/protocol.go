package observer

import "outbreak/internal/outbreak"

// Version is the observer protocol version.
const Version = "0.1"

// Message types.
const (
	TypeSubscribe = "SUBSCRIBE"
	TypeDay       = "DAY"
	TypeEnd       = "END"
)

// SubscribeMsg is the first client message on the websocket. Replay asks
// for every day delivered so far before the live stream.
type SubscribeMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Replay          bool   `json:"replay"`
}

// BootstrapResponse is served by GET /observer/bootstrap.
type BootstrapResponse struct {
	ProtocolVersion string          `json:"protocol_version"`
	Population      int             `json:"population"`
	Seed            int64           `json:"seed"`
	Params          outbreak.Params `json:"params"`
	Day             int             `json:"day"`
	Ended           bool            `json:"ended"`
}

// DayMsg carries one day. The result's fields are inlined.
type DayMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	outbreak.DayResult
}

// EndMsg is sent once the outbreak resolves.
type EndMsg struct {
	Type            string                 `json:"type"`
	ProtocolVersion string                 `json:"protocol_version"`
	Days            int                    `json:"days"`
	TotalInfected   int                    `json:"total_infected"`
	Recovered       int                    `json:"recovered"`
	Dead            int                    `json:"dead"`
	Series          []outbreak.SeriesPoint `json:"series"`
}
