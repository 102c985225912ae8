package docmap

import (
	"sync"

	"github.com/jmespath/go-jmespath"
)

// compiled expressions, indexed by their source text
var queryCache sync.Map

// Search evaluates a JMESPath expression against root. It returns false if
// the expression does not compile, fails to evaluate or yields null.
//
// Numbers are evaluated as float64, integral results are read back as
// integers by the classifier as usual.
func Search(expression string, root Value) (Value, bool) {
	query, err := compileQuery(expression)
	if err != nil {
		return Value{}, false
	}

	result, err := query.Search(queryInput(root))
	if err != nil || result == nil {
		return Value{}, false
	}

	value, err := FromAny(result)
	if err != nil || value.IsNull() {
		return Value{}, false
	}

	return value, true
}

func compileQuery(expression string) (*jmespath.JMESPath, error) {
	if cached, ok := queryCache.Load(expression); ok {
		return cached.(*jmespath.JMESPath), nil
	}

	query, err := jmespath.Compile(expression)
	if err != nil {
		return nil, err
	}

	cached, _ := queryCache.LoadOrStore(expression, query)
	return cached.(*jmespath.JMESPath), nil
}

// queryInput converts a Value like ToAny does, but with every number as a
// float64, the only numeric type the jmespath interpreter compares.
func queryInput(value Value) any {
	switch value.kind {
	case KindScalar:
		switch scalar := value.scalar.(type) {
		case int64:
			return float64(scalar)
		case uint64:
			return float64(scalar)
		default:
			return scalar
		}

	case KindObject:
		result := make(map[string]any, value.object.Len())
		for key, member := range value.object.All() {
			result[key] = queryInput(member)
		}

		return result

	case KindSequence:
		result := make([]any, len(value.seq))
		for idx, element := range value.seq {
			result[idx] = queryInput(element)
		}

		return result

	default:
		return nil
	}
}
