package telegram

import (
	"fmt"
	"strings"

	app "detection-eval/internal/application"
	"detection-eval/internal/domain/entity"
)

// formatOutput текст ответа с оценкой снимка.
func formatOutput(out *app.EvaluationOutput) string {
	var sb strings.Builder
	r := out.Result
	fmt.Fprintf(&sb, "🎯 Точность: %.3f (%.2f из %.0f детекций)\n", r.Precision, r.MatchedDetections, r.DetectionCount)
	fmt.Fprintf(&sb, "🔎 Полнота: %.3f (%.2f из %.0f областей)\n", r.Recall, r.MatchedGroundTruths, r.GroundTruthCount)

	c := out.Classification
	if len(c.OneToOne) > 0 {
		pairs := make([]string, len(c.OneToOne))
		for i, p := range c.OneToOne {
			pairs[i] = fmt.Sprintf("G%d↔D%d", p.GroundTruth, p.Detection)
		}
		fmt.Fprintf(&sb, "\n✅ Один к одному: %s", strings.Join(pairs, ", "))
	}
	for _, s := range c.Splits {
		fmt.Fprintf(&sb, "\n✂️ Разбиение G%d → %s", s.GroundTruth, indices("D", s.Detections))
	}
	for _, m := range c.Merges {
		fmt.Fprintf(&sb, "\n🔗 Слияние %s → D%d", indices("G", m.GroundTruths), m.Detection)
	}

	if out.Summary.Units > 0 {
		sb.WriteString("\n\n")
		sb.WriteString(formatSummary(out.Summary))
	}
	return sb.String()
}

// formatSummary текст накопленной статистики.
func formatSummary(s entity.Summary) string {
	if s.Units == 0 {
		return msgNoStats
	}
	return fmt.Sprintf("📊 Всего снимков: %d, точность %.3f, полнота %.3f", s.Units, s.Precision(), s.Recall())
}

func indices(prefix string, idx []int) string {
	parts := make([]string, len(idx))
	for i, v := range idx {
		parts[i] = fmt.Sprintf("%s%d", prefix, v)
	}
	return strings.Join(parts, ", ")
}
