package catalog

type Category string

const (
	CategoryEauDeParfum   Category = "eau-de-parfum"
	CategoryEauDeToilette Category = "eau-de-toilette"
	CategoryMens          Category = "mens"
	CategoryWomens        Category = "womens"
	CategoryUnisex        Category = "unisex"
)

func (c Category) String() string {
	return string(c)
}

func (c Category) Valid() bool {
	switch c {
	case CategoryEauDeParfum, CategoryEauDeToilette, CategoryMens, CategoryWomens, CategoryUnisex:
		return true
	}
	return false
}

// Product is an immutable catalog record. Price is stored in the smallest
// currency unit times 1000, so 120000 renders as 120. The base price covers
// the 50ml bottle; larger volumes are derived via VolumePrice.
type Product struct {
	ID             string   `yaml:"id" json:"id"`
	Name           string   `yaml:"name" json:"name"`
	Category       Category `yaml:"category" json:"category"`
	Description    string   `yaml:"description,omitempty" json:"description,omitempty"`
	FragranceNotes string   `yaml:"fragranceNotes,omitempty" json:"fragranceNotes,omitempty"`
	Price          int64    `yaml:"price" json:"price"`
	Image          string   `yaml:"image,omitempty" json:"image,omitempty"`
	Images         []string `yaml:"images,omitempty" json:"images,omitempty"`
	Volumes        []string `yaml:"volumes,omitempty" json:"volumes,omitempty"`
	Featured       bool     `yaml:"featured,omitempty" json:"featured,omitempty"`
}

// HasVolume reports whether v is one of the product's listed volumes.
func (p Product) HasVolume(v string) bool {
	for _, pv := range p.Volumes {
		if pv == v {
			return true
		}
	}
	return false
}
