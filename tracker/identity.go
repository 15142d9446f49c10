package tracker

import (
	"image/color"
	"math/rand/v2"

	"github.com/google/uuid"
	"github.com/lucasb-eyer/go-colorful"
)

// Identity is the stable marker carried by a physical object across frames.
type Identity struct {
	// ID is unique per minted identity.
	ID uuid.UUID
	// Color is used to draw every region carrying this identity.
	Color color.RGBA
}

// Hex returns the identity color as #rrggbb.
func (id Identity) Hex() string {
	c, _ := colorful.MakeColor(id.Color)
	return c.Hex()
}

func (id Identity) String() string {
	return id.ID.String()[:8] + " " + id.Hex()
}

// rngReader adapts a seeded generator to io.Reader so uuid can draw from it.
type rngReader struct {
	rng *rand.Rand
}

func (r rngReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = byte(r.rng.Uint32())
	}
	return len(p), nil
}

// mint draws a color and then an ID from rng.
func mint(rng *rand.Rand) Identity {
	c := color.RGBA{
		R: uint8(rng.IntN(256)),
		G: uint8(rng.IntN(256)),
		B: uint8(rng.IntN(256)),
		A: 255,
	}
	return Identity{
		ID:    uuid.Must(uuid.NewRandomFromReader(rngReader{rng: rng})),
		Color: c,
	}
}
