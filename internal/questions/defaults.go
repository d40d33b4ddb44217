package questions

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Defaults is the built-in question list for proposal planning.
var Defaults = []string{
	"이번 입찰을 통해 달성하고자 하는 핵심 목적은 무엇인가요?",
	"제안하려는 출판물의 핵심 컨셉이나 차별화 포인트는 무엇인가요?",
	"주요 독자층(대상)은 누구이며, 어떤 요구를 가지고 있나요?",
	"예상하는 예산 규모와 제작 일정은 어떻게 되나요?",
	"유사 사업 수행 실적이나 우리 조직만의 강점이 있다면 알려주세요.",
}

type questionsFile struct {
	Questions []string `yaml:"questions"`
}

// LoadFile reads a YAML file with a top-level "questions" list.
// An empty path returns a copy of Defaults.
func LoadFile(path string) ([]string, error) {
	if path == "" {
		return clone(Defaults), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read questions file: %w", err)
	}
	var f questionsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse questions file: %w", err)
	}
	if len(Active(f.Questions)) == 0 {
		return nil, fmt.Errorf("questions file %s has no non-blank questions", path)
	}
	return f.Questions, nil
}
