package internal

const defaultMaxCacheSize = 8

// Destroyer is a resource released with Destroy, such as *sdl.Texture.
type Destroyer interface {
	Destroy() error
}

// TextureCache keeps the most recently used textures, destroying the least
// recently used one when full. It holds the rendered page number strings and
// the rasterized status icons.
type TextureCache[T Destroyer] struct {
	textures map[string]T
	order    []string // tracks use order for LRU eviction
	maxSize  int
}

func NewTextureCache[T Destroyer]() *TextureCache[T] {
	return NewTextureCacheWithSize[T](defaultMaxCacheSize)
}

func NewTextureCacheWithSize[T Destroyer](maxSize int) *TextureCache[T] {
	if maxSize < 1 {
		maxSize = 1
	}
	return &TextureCache[T]{
		textures: make(map[string]T),
		order:    make([]string, 0, maxSize),
		maxSize:  maxSize,
	}
}

func (c *TextureCache[T]) Get(key string) (T, bool) {
	texture, exists := c.textures[key]
	if exists {
		c.moveToEnd(key)
	}
	return texture, exists
}

// Set stores texture under key. A texture previously stored under key is
// destroyed.
func (c *TextureCache[T]) Set(key string, texture T) {
	if old, exists := c.textures[key]; exists {
		old.Destroy()
		c.textures[key] = texture
		c.moveToEnd(key)
		return
	}

	if len(c.order) >= c.maxSize {
		c.evictOldest()
	}

	c.textures[key] = texture
	c.order = append(c.order, key)
}

// Len returns the number of cached textures.
func (c *TextureCache[T]) Len() int {
	return len(c.order)
}

func (c *TextureCache[T]) moveToEnd(key string) {
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			c.order = append(c.order, key)
			return
		}
	}
}

func (c *TextureCache[T]) evictOldest() {
	if len(c.order) == 0 {
		return
	}

	oldest := c.order[0]
	c.order = c.order[1:]

	if texture, exists := c.textures[oldest]; exists {
		texture.Destroy()
		delete(c.textures, oldest)
	}
}

func (c *TextureCache[T]) Destroy() {
	for _, texture := range c.textures {
		texture.Destroy()
	}
	c.textures = make(map[string]T)
	c.order = c.order[:0]
}
