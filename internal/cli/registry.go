package cli

import (
	"fmt"
	"sort"

	"tsexp/internal/ml"
)

// classifiers maps the names accepted by --classifier to constructors. The harness
// itself never looks components up by name.
var classifiers = map[string]func() ml.Classifier{
	"prior": func() ml.Classifier { return ml.NewPrior() },
}

func newClassifier(name string) (ml.Classifier, error) {
	factory, ok := classifiers[name]
	if !ok {
		return nil, fmt.Errorf("unknown classifier %q (available: %v)", name, classifierNames())
	}
	return factory(), nil
}

func classifierNames() []string {
	names := make([]string, 0, len(classifiers))
	for n := range classifiers {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
