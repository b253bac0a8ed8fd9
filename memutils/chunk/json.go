package chunk

import "github.com/launchdarkly/go-jsonstream/v3/jwriter"

// WriteJSON writes one object per entry, in address order, into the provided json array
func (l *List) WriteJSON(json *jwriter.ArrayState) {
	for _, c := range l.chunks {
		obj := json.Object()
		obj.Name("Start").Int(c.Start)
		obj.Name("Size").Int(c.Size)
		obj.End()
	}
}
