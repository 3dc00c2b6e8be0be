package gateway

import (
	"encoding/json"
	"errors"
	"math"

	"github.com/invopop/jsonschema"
	"github.com/lockstep-cli/lockstep/constant"
)

// Message is the inbound event shape emitted by the player.
type Message struct {
	Event string `json:"event" jsonschema:"enum=progress,enum=seekAck"`
	Data  Data   `json:"data"`
}

// Data carries the event payload.
type Data struct {
	Progress *float64 `json:"progress,omitempty" jsonschema:"description=Playback counter in player-defined units"`
}

// Command is the outbound shape understood by the player.
type Command struct {
	Method string   `json:"method" jsonschema:"enum=requestProgress,enum=seek,enum=play"`
	Value  *float64 `json:"value,omitempty" jsonschema:"description=Target progress for seek"`
}

// Event is a validated inbound progress observation.
type Event struct {
	Name string

	// Progress is NaN when the player reported a non-numeric value.
	Progress float64
}

var errMalformed = errors.New("malformed payload")

// decode accepts a JSON text (string, []byte, json.RawMessage) or an already
// structured value and extracts the event name and progress.
func decode(payload any) (Event, error) {
	var raw map[string]any

	switch p := payload.(type) {
	case string:
		if err := json.Unmarshal([]byte(p), &raw); err != nil {
			return Event{}, err
		}
	case []byte:
		if err := json.Unmarshal(p, &raw); err != nil {
			return Event{}, err
		}
	case json.RawMessage:
		if err := json.Unmarshal(p, &raw); err != nil {
			return Event{}, err
		}
	case map[string]any:
		raw = p
	case Message:
		return fromMessage(p)
	case *Message:
		if p == nil {
			return Event{}, errMalformed
		}
		return fromMessage(*p)
	default:
		return Event{}, errMalformed
	}

	if raw == nil {
		return Event{}, errMalformed
	}

	name, ok := raw["event"].(string)
	if !ok {
		return Event{}, errMalformed
	}

	data, ok := raw["data"].(map[string]any)
	if !ok {
		return Event{}, errMalformed
	}

	value, present := data["progress"]
	if !present {
		return Event{}, errMalformed
	}

	progress, ok := value.(float64)
	if !ok {
		progress = math.NaN()
	}

	return Event{Name: name, Progress: progress}, nil
}

func fromMessage(m Message) (Event, error) {
	if m.Data.Progress == nil {
		return Event{}, errMalformed
	}
	return Event{Name: m.Event, Progress: *m.Data.Progress}, nil
}

// interesting reports whether the engine consumes events with this name.
func interesting(name string) bool {
	return name == constant.EventProgress || name == constant.EventSeekAck
}

// Schema returns the JSON schemas of the inbound and outbound message shapes.
func Schema() (inbound, outbound *jsonschema.Schema) {
	r := &jsonschema.Reflector{ExpandedStruct: true}
	return r.Reflect(&Message{}), r.Reflect(&Command{})
}
