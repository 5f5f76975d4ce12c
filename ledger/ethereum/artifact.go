package ethledger

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
)

// LoadContractAddress reads the deploy artifact the contract toolchain writes
// next to the frontend assets, a JSON object of the form
// {"EducationGrades": "0x..."} or {"address": "0x..."}.
func LoadContractAddress(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, "reading deploy artifact %s", path)
	}
	var artifact map[string]string
	if err := json.Unmarshal(data, &artifact); err != nil {
		return "", errors.Wrapf(err, "parsing deploy artifact %s", path)
	}
	for _, key := range []string{"EducationGrades", "address"} {
		if addr := artifact[key]; addr != "" {
			return addr, nil
		}
	}
	return "", errors.Errorf("deploy artifact %s carries no contract address", path)
}
