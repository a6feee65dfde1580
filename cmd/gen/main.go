package main

import (
	"hearth/internal/infra/persistence/model"

	"gorm.io/gen"
)

func main() {
	models := []any{
		model.ListingModel{},
		model.ListingDetailModel{},
		model.ListingFeatureModel{},
		model.ListingPhotoModel{},
	}

	gen := gen.NewGenerator(gen.Config{
		OutPath: "./internal/infra/persistence/postgres/query",
	})

	gen.ApplyBasic(models...)

	gen.Execute()
}
