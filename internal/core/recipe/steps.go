package recipe

import (
	"regexp"
	"strings"
)

var stepLabel = regexp.MustCompile(`(?i)^(passo|step)\s*\d+[:\s]*`)

// CleanStep 去除步驟開頭的 "Passo 1:" / "Step 1:" 標籤
func CleanStep(step string) string {
	step = strings.TrimSpace(step)
	return strings.TrimSpace(stepLabel.ReplaceAllString(step, ""))
}
