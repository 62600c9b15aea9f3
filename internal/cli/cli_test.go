package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/storefront/internal/logging"
	"github.com/mesh-intelligence/storefront/internal/paths"
	"github.com/mesh-intelligence/storefront/pkg/types"
)

type dirs struct {
	config string
	data   string
}

func newDirs(t *testing.T) dirs {
	t.Helper()
	t.Setenv(logging.EnvLogLevel, "")
	t.Setenv(paths.EnvConfigDir, "")
	t.Setenv(paths.EnvDataDir, "")
	root := t.TempDir()
	return dirs{config: filepath.Join(root, "config"), data: filepath.Join(root, "data")}
}

// run executes the root command against d and returns its stdout.
func run(t *testing.T, d dirs, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--config-dir", d.config, "--data-dir", d.data}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, d dirs, args ...string) string {
	t.Helper()
	out, err := run(t, d, args...)
	require.NoError(t, err, "storefront %v", args)
	return out
}

func decode[T any](t *testing.T, out string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(out), &v), out)
	return v
}

func TestVersion(t *testing.T) {
	d := newDirs(t)
	out := mustRun(t, d, "version")
	assert.Contains(t, out, "storefront v"+Version)
	assert.Contains(t, out, modulePath)
	assert.NoDirExists(t, d.config, "version does not touch the config dir")
}

func TestInit(t *testing.T) {
	d := newDirs(t)

	got := decode[map[string]string](t, mustRun(t, d, "--json", "init"))

	assert.Equal(t, d.config, got["config_dir"])
	assert.Equal(t, d.data, got["data_dir"])
	assert.Equal(t, types.BackendSQLite, got["backend"])
	assert.FileExists(t, filepath.Join(d.config, configFileExt))
}

func TestInit_RedisWithoutAddr(t *testing.T) {
	d := newDirs(t)
	require.NoError(t, os.MkdirAll(d.config, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(d.config, configFileExt), []byte("backend: redis\n"), 0o644))

	_, err := run(t, d, "init")

	require.ErrorIs(t, err, types.ErrRedisAddrEmpty)
	assert.Equal(t, exitUserError, exitCode(err))
}

func TestCart_PersistsAcrossCommands(t *testing.T) {
	d := newDirs(t)
	mustRun(t, d, "cart", "add", "classic-tee")
	mustRun(t, d, "cart", "add", "classic-tee")
	mustRun(t, d, "cart", "add", "rain-coat")

	view := decode[cartView](t, mustRun(t, d, "--json", "cart", "show"))
	require.Len(t, view.Items, 2)
	assert.Equal(t, "classic-tee", view.Items[0].ID)
	assert.Equal(t, 2, view.Items[0].Quantity)
	assert.Equal(t, "$149.00", view.Items[1].Price)
	assert.Equal(t, 3, view.TotalCount)

	view = decode[cartView](t, mustRun(t, d, "--json", "cart", "qty", "1", "3"))
	assert.Equal(t, 5, view.Items[0].Quantity)

	view = decode[cartView](t, mustRun(t, d, "--json", "cart", "qty", "--id", "rain-coat", "--", "-1"))
	require.Len(t, view.Items, 1)
	assert.Equal(t, 5, view.TotalCount)

	out := mustRun(t, d, "cart", "show")
	assert.Contains(t, out, " 1. Classic Tee")
	assert.Contains(t, out, "Items: 5")

	out = mustRun(t, d, "cart", "remove", "1")
	assert.Equal(t, "Your cart is empty\n", out)
}

func TestCart_Clear(t *testing.T) {
	d := newDirs(t)
	mustRun(t, d, "cart", "add", "overshirt")
	mustRun(t, d, "cart", "add", "leather-belt")

	view := decode[cartView](t, mustRun(t, d, "--json", "cart", "clear"))
	assert.Empty(t, view.Items)
	assert.Zero(t, view.TotalCount)
}

func TestCart_Errors(t *testing.T) {
	d := newDirs(t)
	mustRun(t, d, "cart", "add", "classic-tee")

	tests := []struct {
		name string
		args []string
	}{
		{"unknown product", []string{"cart", "add", "nope"}},
		{"row out of range", []string{"cart", "remove", "2"}},
		{"row not a number", []string{"cart", "remove", "first"}},
		{"no target", []string{"cart", "remove"}},
		{"unknown id", []string{"cart", "remove", "--id", "rain-coat"}},
		{"bad delta", []string{"cart", "qty", "1", "many"}},
		{"missing args", []string{"cart", "qty"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, d, tt.args...)
			require.Error(t, err)
			assert.Equal(t, exitUserError, exitCode(err))
		})
	}

	view := decode[cartView](t, mustRun(t, d, "--json", "cart", "show"))
	assert.Equal(t, 1, view.TotalCount, "failed commands leave the cart alone")
}

func TestWishlist_Toggle(t *testing.T) {
	d := newDirs(t)

	view := decode[wishlistView](t, mustRun(t, d, "--json", "wishlist", "toggle", "linen-shirt"))
	assert.Equal(t, 1, view.Count)
	assert.Equal(t, []string{"linen-shirt"}, view.Products)

	out := mustRun(t, d, "wishlist", "show")
	assert.Contains(t, out, "Linen Shirt")
	assert.Contains(t, out, "Liked: 1")

	assert.Equal(t, "Your wishlist is empty\n", mustRun(t, d, "wishlist", "toggle", "linen-shirt"))

	_, err := run(t, d, "wishlist", "toggle", "nope")
	assert.Equal(t, exitUserError, exitCode(err))
}

func productIDs(ps []types.Product) []string {
	ids := make([]string, len(ps))
	for i, p := range ps {
		ids[i] = p.ID
	}
	return ids
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		want  []string
		count int
	}{
		{
			name:  "size and price",
			args:  []string{"--size", "xl", "--price", "0-100"},
			want:  []string{"chino-pants", "overshirt"},
			count: 2,
		},
		{
			name:  "category",
			args:  []string{"--category", "sale"},
			want:  []string{"linen-shirt", "wool-beanie", "running-shorts"},
			count: 3,
		},
		{
			name:  "cheapest first",
			args:  []string{"--order", "product-price", "--sort", "a-z", "--price", "0-30"},
			want:  []string{"wool-beanie", "canvas-tote", "classic-tee"},
			count: 3,
		},
		{
			name:  "reset",
			args:  []string{"--reset"},
			count: 10,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newDirs(t)
			args := append([]string{"--json", "filter"}, tt.args...)
			view := decode[filterView](t, mustRun(t, d, args...))

			assert.Equal(t, tt.count, view.VisibleCount)
			if tt.want != nil {
				assert.Equal(t, tt.want, productIDs(view.Products))
			}
		})
	}
}

func TestFilter_Errors(t *testing.T) {
	d := newDirs(t)

	_, err := run(t, d, "filter", "--price", "cheap")
	require.ErrorIs(t, err, types.ErrInvalidPriceRange)
	assert.Equal(t, exitUserError, exitCode(err))

	tests := []struct {
		name string
		args []string
	}{
		{"category and reset", []string{"--category", "sale", "--reset"}},
		{"category and size", []string{"--category", "sale", "--size", "m"}},
		{"category and price", []string{"--category", "sale", "--price", "0-50"}},
		{"category and order", []string{"--category", "sale", "--order", "product-price"}},
		{"category and sort", []string{"--category", "sale", "--sort", "z-a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, d, append([]string{"filter"}, tt.args...)...)
			require.Error(t, err)
			assert.Equal(t, exitUserError, exitCode(err))
		})
	}
}

func TestFilter_ProductFlagsCombine(t *testing.T) {
	d := newDirs(t)
	args := []string{"--json", "filter", "--size", "m", "--price", "0-40", "--order", "product-price", "--sort", "z-a"}
	view := decode[filterView](t, mustRun(t, d, args...))

	assert.Equal(t, []string{"running-shorts", "classic-tee"}, productIDs(view.Products))
}

func TestFilter_NoMatch(t *testing.T) {
	d := newDirs(t)
	assert.Equal(t, "No products match\n", mustRun(t, d, "filter", "--size", "xxs"))
}

func TestCarousel(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		positions []int
		maxPos    int
	}{
		{
			name:      "product next wraps",
			args:      []string{"--steps", "10"},
			positions: []int{-310, -620, -930, -1240, -1550, -1860, 0, -310, -620, -930},
			maxPos:    -1860,
		},
		{
			name:      "product prev wraps to the end",
			args:      []string{"--steps", "2", "--dir", "prev"},
			positions: []int{-1860, -1550},
			maxPos:    -1860,
		},
		{
			name:      "testimonial auto advance",
			args:      []string{"--preset", "testimonial", "--auto", "--steps", "3"},
			positions: []int{-900, -1800, 0},
			maxPos:    -1800,
		},
		{
			name:      "measured width",
			args:      []string{"--preset", "testimonial", "--width", "380", "--steps", "1"},
			positions: []int{-1200},
			maxPos:    -2400,
		},
		{
			name:      "explicit visible count",
			args:      []string{"--visible", "5", "--steps", "2"},
			positions: []int{-310, 0},
			maxPos:    -310,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newDirs(t)
			args := append([]string{"--json", "carousel"}, tt.args...)
			view := decode[carouselView](t, mustRun(t, d, args...))

			assert.Equal(t, tt.positions, view.Positions)
			assert.Equal(t, tt.maxPos, view.MaxPosition)
		})
	}
}

func TestCarousel_AutoOutsideAllCategoryIsIdle(t *testing.T) {
	d := newDirs(t)
	view := decode[carouselView](t, mustRun(t, d, "--json", "carousel", "--auto", "--category", "outerwear"))

	assert.Equal(t, 3, view.Visible)
	assert.Empty(t, view.Positions)
}

func TestCarousel_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown preset", []string{"--preset", "hero"}},
		{"bad direction", []string{"--dir", "up"}},
		{"negative steps", []string{"--steps", "-1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, newDirs(t), append([]string{"carousel"}, tt.args...)...)
			require.Error(t, err)
			assert.Equal(t, exitUserError, exitCode(err))
		})
	}
}

func TestCustomCatalog(t *testing.T) {
	d := newDirs(t)
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`products:
  - id: a
    name: Alpha
    price: "$1"
    category: x
`), 0o644))

	view := decode[filterView](t, mustRun(t, d, "--json", "--catalog", path, "filter"))
	assert.Equal(t, []string{"a"}, productIDs(view.Products))

	_, err := run(t, d, "--catalog", filepath.Join(t.TempDir(), "missing.yaml"), "cart", "show")
	assert.Equal(t, exitUserError, exitCode(err))
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, exitSuccess},
		{"user", userError("bad %s", "input"), exitUserError},
		{"system", sysError("disk"), exitSysError},
		{"wrapped system", fmt.Errorf("cmd: %w", sysError("disk")), exitSysError},
		{"plain", errors.New("unknown flag"), exitUserError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}

func TestLoadSettings(t *testing.T) {
	t.Run("writes defaults on first run", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "cfg")

		s, err := loadSettings(dir)
		require.NoError(t, err)

		assert.Equal(t, defaultBackend, s.Backend)
		assert.Equal(t, defaultKeyPrefix, s.KeyPrefix)
		assert.Equal(t, defaultLogLevel, s.LogLevel)
		assert.Empty(t, s.Catalog)
		data, err := os.ReadFile(filepath.Join(dir, configFileExt))
		require.NoError(t, err)
		assert.Contains(t, string(data), defaultConfigHeader)
	})

	t.Run("reads an existing file", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, configFileExt), []byte(
			"backend: redis\nredis_addr: localhost:6379\nredis_db: 2\nlog_level: debug\ncatalog: shop.yaml\n"), 0o644))

		s, err := loadSettings(dir)
		require.NoError(t, err)

		assert.Equal(t, types.BackendRedis, s.Backend)
		assert.Equal(t, "localhost:6379", s.RedisAddr)
		assert.Equal(t, 2, s.RedisDB)
		assert.Equal(t, defaultKeyPrefix, s.KeyPrefix)
		assert.Equal(t, "debug", s.LogLevel)
		assert.Equal(t, filepath.Join(dir, "shop.yaml"), s.Catalog)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, configFileExt), []byte("backend: [\n"), 0o644))

		_, err := loadSettings(dir)
		assert.Error(t, err)
	})
}

func TestParseCatalog(t *testing.T) {
	c, err := parseCatalog(sampleCatalog)
	require.NoError(t, err)
	assert.Len(t, c.Products, 10)
	assert.Len(t, c.Testimonials, 7)

	_, err = parseCatalog([]byte("products:\n  - id: a\n  - id: a\n"))
	assert.ErrorIs(t, err, types.ErrDuplicateProductID)

	_, err = parseCatalog([]byte("products: {"))
	assert.Error(t, err)
}
