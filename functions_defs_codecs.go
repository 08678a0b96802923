package webserver

import (
	"encoding/json"
	"fmt"

	"github.com/ghetzel/go-stockutil/typeutil"
	base58 "github.com/jbenet/go-base58"
	"github.com/spaolacci/murmur3"
)

func loadStandardFunctionsCodecs(rv FuncMap) {
	// fn jsonify: Encode the given *value* as a JSON string, optionally using *indent* to pretty
	//             format the output.
	rv[`jsonify`] = func(value interface{}, indent ...string) (string, error) {
		var data []byte
		var err error

		if len(indent) > 0 && indent[0] != `` {
			data, err = json.MarshalIndent(value, ``, indent[0])
		} else {
			data, err = json.Marshal(value)
		}

		return string(data), err
	}

	// fn murmur3: hash the given data using the Murmur3 algorithm.
	rv[`murmur3`] = func(value interface{}) string {
		return fmt.Sprintf("%d", murmur3.Sum64([]byte(typeutil.String(value))))
	}

	// fn base58: encode the given data as a Base58 string.
	rv[`base58`] = func(value interface{}) string {
		return base58.Encode([]byte(typeutil.String(value)))
	}
}
