package loader_test

import (
	"errors"
	"testing"

	"bucket-manager/core/loader"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

type fakeFeature struct {
	name    string
	enabled bool
	err     error
	loaded  bool
}

func (f *fakeFeature) Name() string    { return f.name }
func (f *fakeFeature) IsEnabled() bool { return f.enabled }
func (f *fakeFeature) Load(app fiber.Router) error {
	f.loaded = true
	return f.err
}

func TestManager_LoadAll(t *testing.T) {
	t.Run("SkipsDisabled", func(t *testing.T) {
		on := &fakeFeature{name: "on", enabled: true}
		off := &fakeFeature{name: "off"}

		mgr := loader.NewManager()
		mgr.Register(on)
		mgr.Register(off)

		assert.NoError(t, mgr.LoadAll(fiber.New()))
		assert.True(t, on.loaded)
		assert.False(t, off.loaded)
		assert.Len(t, mgr.Features(), 2)
	})

	t.Run("StopsOnError", func(t *testing.T) {
		boom := errors.New("boom")
		mgr := loader.NewManager()
		mgr.Register(&fakeFeature{name: "bad", enabled: true, err: boom})
		next := &fakeFeature{name: "next", enabled: true}
		mgr.Register(next)

		err := mgr.LoadAll(fiber.New())
		assert.ErrorIs(t, err, boom)
		assert.False(t, next.loaded)
	})

	t.Run("DuplicateName", func(t *testing.T) {
		mgr := loader.NewManager()
		mgr.Register(&fakeFeature{name: "dup", enabled: true})
		mgr.Register(&fakeFeature{name: "dup", enabled: true})

		assert.Error(t, mgr.LoadAll(fiber.New()))
	})
}
