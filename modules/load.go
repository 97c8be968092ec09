package modules

import (
	"github.com/northstarhq/northstar/modules/core"
	"github.com/northstarhq/northstar/modules/planning"
	"github.com/northstarhq/northstar/pkg/application"
)

var BuiltInModules = []application.Module{
	core.NewModule(),
	planning.NewModule(),
}

func Load(app application.Application, externalModules ...application.Module) error {
	for _, module := range externalModules {
		if err := module.Register(app); err != nil {
			return err
		}
	}
	return nil
}
