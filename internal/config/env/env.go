package env

import (
	"fmt"

	cenv "github.com/caarlos0/env/v11"
)

// parse заполняет структуру из переменных окружения по тегам env/envDefault
func parse(target any) error {
	if err := cenv.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
