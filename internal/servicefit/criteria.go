package servicefit

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/buyer-match/internal/model"
)

// LoadCriteria reads tracker service criteria from a YAML file:
//
//	required: [collision repair]
//	preferred: [paint, calibration]
//	excluded: [towing]
func LoadCriteria(path string) (model.ServiceCriteria, error) {
	var c model.ServiceCriteria
	data, err := os.ReadFile(path)
	if err != nil {
		return c, eris.Wrapf(err, "servicefit: read criteria %s", path)
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, eris.Wrapf(err, "servicefit: parse criteria %s", path)
	}
	return c, nil
}
