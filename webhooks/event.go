package webhooks

import "encoding/json"

type notificationEnvelope struct {
	Event *struct {
		Name json.RawMessage `json:"name"`
	} `json:"event"`
}

// ExtractEventName reads event.name from a notification body without
// altering the bytes. Bodies that are not JSON objects, or whose event.name is
// missing or not a string, yield "".
func ExtractEventName(rawBody []byte) string {
	var envelope notificationEnvelope
	if err := json.Unmarshal(rawBody, &envelope); err != nil {
		return ""
	}
	if envelope.Event == nil || len(envelope.Event.Name) == 0 {
		return ""
	}
	var name string
	if err := json.Unmarshal(envelope.Event.Name, &name); err != nil {
		return ""
	}
	return name
}
