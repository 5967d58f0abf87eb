package sqliteengine

import (
	jsoniter "github.com/json-iterator/go"
)

var idSetJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// bindIDSet encodes ids as a JSON array, consumed in query text with json_each(?).
func bindIDSet(ids []int64) (string, error) {
	if ids == nil {
		ids = []int64{}
	}

	encoded, err := idSetJSON.MarshalToString(ids)
	if err != nil {
		return "", err
	}

	return encoded, nil
}
