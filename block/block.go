package block

import (
	"fmt"
	"strings"
)

// Block is a voxel material. The zero value is Air.
type Block uint8

const (
	Air Block = iota
	Grass
	Dirt
	Stone
	Sand
)

// Face selects one of the three texture slots of a block.
type Face int

const (
	Top Face = iota
	Side
	Bottom
)

// Properties describes how a block is drawn and collided with.
type Properties struct {
	Name      string
	Textures  [3]int // atlas indices: top, side, bottom
	Invisible bool
	Solid     bool
}

var properties = map[Block]Properties{
	Air:   {Name: "air", Textures: [3]int{0, 0, 0}, Invisible: true, Solid: false},
	Grass: {Name: "grass", Textures: [3]int{0, 1, 2}, Solid: true},
	Dirt:  {Name: "dirt", Textures: [3]int{2, 2, 2}, Solid: true},
	Stone: {Name: "stone", Textures: [3]int{3, 3, 3}, Solid: true},
	Sand:  {Name: "sand", Textures: [3]int{4, 4, 4}, Solid: true},
}

// GetProperties returns the table row for b. Unknown values are treated as
// opaque solid blocks using the first atlas cell.
func GetProperties(b Block) Properties {
	props, exists := properties[b]
	if !exists {
		return Properties{Name: fmt.Sprintf("block(%d)", uint8(b)), Solid: true}
	}
	return props
}

// Texture returns the atlas index used for the given face.
func (b Block) Texture(f Face) int {
	return GetProperties(b).Textures[f]
}

func (b Block) IsInvisible() bool {
	return GetProperties(b).Invisible
}

func (b Block) IsSolid() bool {
	return GetProperties(b).Solid
}

func (b Block) String() string {
	return GetProperties(b).Name
}

// Parse looks a block up by its table name, case-insensitively.
func Parse(name string) (Block, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for b, props := range properties {
		if props.Name == name {
			return b, nil
		}
	}
	return Air, fmt.Errorf("unknown block %q", name)
}

// All returns every registered block in ascending order.
func All() []Block {
	all := make([]Block, 0, len(properties))
	for b := Air; int(b) < len(properties); b++ {
		if _, ok := properties[b]; ok {
			all = append(all, b)
		}
	}
	return all
}
