package webserver

import (
	humanize "github.com/dustin/go-humanize"
	"github.com/ghetzel/go-stockutil/sliceutil"
	"github.com/ghetzel/go-stockutil/stringutil"
	"github.com/ghetzel/go-stockutil/typeutil"
	"github.com/montanaflynn/stats"
)

func loadStandardFunctionsMath(rv FuncMap) {
	// fn add: Return the sum of all of the given *values*.
	rv[`add`] = func(values ...interface{}) (float64, error) {
		return calcFn(`+`, values...)
	}

	// fn sub: Sequentially subtract all of the given *values*.
	rv[`sub`] = func(values ...interface{}) (float64, error) {
		return calcFn(`-`, values...)
	}

	// fn mul: Return the product of all of the given *values*.
	rv[`mul`] = func(values ...interface{}) (float64, error) {
		return calcFn(`*`, values...)
	}

	// fn div: Sequentially divide all of the given *values*.
	rv[`div`] = func(values ...interface{}) (float64, error) {
		return calcFn(`/`, values...)
	}

	// fn mod: Return the modulus of all of the given *values*.
	rv[`mod`] = func(values ...interface{}) (float64, error) {
		return calcFn(`%`, values...)
	}

	// fn seq: Return an array of integers representing a sequence from [0, *n*).
	rv[`seq`] = func(max interface{}) []int {
		if v, err := stringutil.ConvertToInteger(max); err == nil && v > 0 {
			seq := make([]int, v)

			for i := range seq {
				seq[i] = i
			}

			return seq
		} else {
			return nil
		}
	}

	// fn bytesize: Format the given number of bytes as a human-readable size (e.g. "1.2 MB").
	rv[`bytesize`] = func(value interface{}) string {
		return humanize.Bytes(uint64(typeutil.Int(value)))
	}

	// Numeric Aggregation Functions
	// ---------------------------------------------------------------------------------------------
	for fnName, fn := range map[string]statsUnary{
		`mean`:   stats.Mean,
		`median`: stats.Median,
		`sum`:    stats.Sum,
	} {
		rv[fnName] = func(statsFn statsUnary) statsTplFunc {
			return func(in interface{}) (float64, error) {
				var input []float64

				if err := sliceutil.Each(in, func(i int, value interface{}) error {
					if v, err := stringutil.ConvertToFloat(value); err == nil {
						input = append(input, v)
					} else {
						return err
					}

					return nil
				}); err == nil {
					if vv, err := statsFn(stats.Float64Data(input)); err == nil {
						return vv, nil
					} else {
						return 0, nil
					}
				} else {
					return 0, err
				}
			}
		}(fn)
	}
}
