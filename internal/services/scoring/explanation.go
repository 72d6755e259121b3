package scoring

import (
	"strings"

	"github.com/shopspring/decimal"

	"fraudgen/internal/models"
)

const maxNarratedSignals = 3

func explain(b bucket, p decimal.Decimal, signals []Signal, loc models.Location) string {
	var sb strings.Builder

	flagged := b.decision.Flagged()
	kind := KindConfirming
	if flagged {
		kind = KindSuspicious
	}

	var bullets []string
	for _, sig := range signals {
		if sig.Kind == kind {
			bullets = append(bullets, sig.Message)
			if len(bullets) == maxNarratedSignals {
				break
			}
		}
	}

	pct := p.Mul(decimal.NewFromInt(100)).StringFixed(1) + "%"

	if flagged {
		sb.WriteString("This transaction was flagged as " + string(b.decision) + " with " + pct + " probability.\n\n")
	} else {
		sb.WriteString("This transaction appears " + string(b.decision) + " with " + pct + " probability.\n\n")
	}
	sb.WriteString("Reason: " + b.reason + "\n\n")

	if flagged {
		sb.WriteString("Key suspicious signals:\n")
		if len(bullets) == 0 {
			bullets = []string{"No specific suspicious signals identified"}
		}
	} else {
		sb.WriteString("Key confirming signals:\n")
		if len(bullets) == 0 {
			bullets = []string{"No specific confirming signals identified"}
		}
	}
	for _, line := range bullets {
		sb.WriteString("- " + line + "\n")
	}

	sb.WriteString("\nLocation: " + loc.City + ", " + loc.Region + ", " + loc.Country + "\n\n")

	if flagged {
		sb.WriteString("We recommend reviewing this transaction carefully before proceeding.")
	} else {
		sb.WriteString("The transaction seems to follow normal patterns.")
	}
	return sb.String()
}
