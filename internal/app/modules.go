package app

import (
	"github.com/vk/querypipe/internal/registry"
	"github.com/vk/querypipe/modules/delay"
	"github.com/vk/querypipe/modules/fail"
	"github.com/vk/querypipe/modules/fetch"
	"github.com/vk/querypipe/modules/generate"
	"github.com/vk/querypipe/modules/transform"
)

// coreModules is the definitive list of processor modules compiled into the
// querypipe binary.
var coreModules = []registry.Module{
	&generate.Module{},
	&transform.Module{},
	&delay.Module{},
	&fetch.Module{},
	&fail.Module{},
}
