package genai

import (
	"fmt"
	"strconv"
)

// Endpoint identifies a remote capability of a model. It becomes the
// ":<method>" suffix of the request path.
type Endpoint int

const (
	GenerateContent Endpoint = iota
	StreamGenerateContent
	CountTokens
	EmbedContent
	BatchEmbedContents
)

var endpointNames = [...]string{
	GenerateContent:       "generateContent",
	StreamGenerateContent: "streamGenerateContent",
	CountTokens:           "countTokens",
	EmbedContent:          "embedContent",
	BatchEmbedContents:    "batchEmbedContents",
}

// Endpoints returns every supported endpoint in declaration order.
func Endpoints() []Endpoint {
	return []Endpoint{
		GenerateContent,
		StreamGenerateContent,
		CountTokens,
		EmbedContent,
		BatchEmbedContents,
	}
}

// String returns the wire name used in the request path.
func (e Endpoint) String() string {
	if !e.valid() {
		return "Endpoint(" + strconv.Itoa(int(e)) + ")"
	}
	return endpointNames[e]
}

func (e Endpoint) valid() bool {
	return e >= 0 && int(e) < len(endpointNames)
}

// ParseEndpoint maps a wire name such as "countTokens" to its Endpoint.
func ParseEndpoint(name string) (Endpoint, error) {
	for _, ep := range Endpoints() {
		if ep.String() == name {
			return ep, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownEndpoint, name)
}
