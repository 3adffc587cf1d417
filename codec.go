package scroll

// Codec defines the interface for marshaling and unmarshaling data.
type Codec interface {
	// ContentType returns the MIME type for this codec (e.g., "application/yaml").
	ContentType() string

	// Marshal encodes v into bytes.
	Marshal(v any) ([]byte, error)

	// Unmarshal decodes data into v.
	Unmarshal(data []byte, v any) error
}

// codec implements Codec with a fixed set of options.
type codec struct {
	opts []Option
}

// New returns a Codec that applies opts to every call.
func New(opts ...Option) Codec {
	return &codec{opts: opts}
}

// ContentType returns the MIME type for YAML.
func (c *codec) ContentType() string {
	return "application/yaml"
}

// Marshal encodes v as block-style YAML.
func (c *codec) Marshal(v any) ([]byte, error) {
	return Marshal(v, c.opts...)
}

// Unmarshal decodes YAML data into v.
func (c *codec) Unmarshal(data []byte, v any) error {
	return Unmarshal(data, v, c.opts...)
}
