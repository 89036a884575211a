package pipeline_test

import (
	"reflect"
	"testing"

	"github.com/sectrean/scope-kit/internal/minicontainer"
	"github.com/sectrean/scope-kit/pipeline"
	"github.com/stretchr/testify/assert"
)

func Test_MiddlewareTypes(t *testing.T) {
	t.Run("ordered, filtered, deduplicated", func(t *testing.T) {
		c := minicontainer.New()
		minicontainer.RegisterTransient[*TagA](c, NewTagA)
		minicontainer.RegisterSingleton[*PlainService](c, NewPlainService)
		minicontainer.RegisterTransient[*TagB](c, NewTagB)
		minicontainer.RegisterCatchAll(c)
		minicontainer.RegisterTransient[*TagC](c, NewTagC)
		minicontainer.RegisterTransient[*TagA](c, NewTagA)

		got := pipeline.MiddlewareTypes(c)

		assert.Equal(t, []reflect.Type{
			reflect.TypeFor[*TagA](),
			reflect.TypeFor[*TagB](),
			reflect.TypeFor[*TagC](),
		}, got)
	})

	t.Run("empty container", func(t *testing.T) {
		assert.Empty(t, pipeline.MiddlewareTypes(minicontainer.New()))
	})

	t.Run("catch-all source only", func(t *testing.T) {
		c := minicontainer.New()
		minicontainer.RegisterCatchAll(c)

		assert.Empty(t, pipeline.MiddlewareTypes(c))
	})
}
