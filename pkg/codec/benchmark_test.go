package codec

import (
	"strings"
	"testing"

	"github.com/forcebit/uriquery-go/pkg/query"
)

var (
	benchQuery     = "?q=golang%20generics&page=2&sort=desc&tag[]=go&tag[]=lang&tag[]=generics&filter=a%2Fb&empty="
	benchLongQuery = strings.Repeat("param=value%20with%20spaces&", 500)
	benchValues    Values
)

func init() {
	var err error
	benchValues, err = Parse(benchQuery)
	if err != nil {
		panic(err)
	}
}

func BenchmarkParse(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = Parse(benchQuery)
	}
}

func BenchmarkParse_Long(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = Parse(benchLongQuery)
	}
}

func BenchmarkSerialize(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = Serialize(benchValues)
	}
}

// Comparison with the pair-set API over the same input.
func BenchmarkQueryParseEncode(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		q, _ := query.Parse(benchQuery)
		_ = q.Encode()
	}
}
