package classify

import (
	"testing"

	"docbc/common"
	"docbc/config"
)

func TestApplyEchoesHeuristicLabelWhenDisabled(t *testing.T) {
	blocks := []common.Block{{Label: common.LabelChapter, Text: "Chapter One"}}
	Apply(blocks, Keyword{}, &config.ClassifierConfig{Enabled: false})

	if blocks[0].ClassifierLabel != common.LabelChapter || blocks[0].ClassifierConfidence != 1.0 {
		t.Errorf("expected passthrough with full confidence, got %+v", blocks[0])
	}
}

func TestApplyUsesBackendAboveThreshold(t *testing.T) {
	blocks := []common.Block{{Label: common.LabelPara, Text: "Figure 3: a diagram"}}
	cfg := &config.ClassifierConfig{Enabled: true, Threshold: 0.5, Backend: "keyword"}
	Apply(blocks, Keyword{}, cfg)

	if blocks[0].ClassifierLabel != common.LabelCaption {
		t.Errorf("ClassifierLabel = %v, want caption", blocks[0].ClassifierLabel)
	}
}

func TestApplyAbstainsBelowThreshold(t *testing.T) {
	blocks := []common.Block{{Label: common.LabelPara, Text: "Just an ordinary sentence."}}
	cfg := &config.ClassifierConfig{Enabled: true, Threshold: 0.5, AbstainLabel: "para"}
	Apply(blocks, Keyword{}, cfg)

	if blocks[0].ClassifierLabel != common.LabelPara {
		t.Errorf("expected abstention to AbstainLabel para, got %v", blocks[0].ClassifierLabel)
	}
}

func TestApplyAbstainsToHeuristicLabelWhenAbstainLabelUnset(t *testing.T) {
	blocks := []common.Block{{Label: common.LabelSection, Text: "Some plain sentence."}}
	cfg := &config.ClassifierConfig{Enabled: true, Threshold: 0.5}
	Apply(blocks, Keyword{}, cfg)

	if blocks[0].ClassifierLabel != common.LabelSection {
		t.Errorf("expected abstention to heuristic label, got %v", blocks[0].ClassifierLabel)
	}
}

func TestNoopAlwaysEchoesHeuristicLabel(t *testing.T) {
	label, confidence := Noop{}.Classify(common.Block{Label: common.LabelFigure})
	if label != common.LabelFigure || confidence != 1.0 {
		t.Errorf("Noop.Classify() = (%v, %v), want (figure, 1.0)", label, confidence)
	}
}

func TestSelectBackendResolvesConfiguredName(t *testing.T) {
	if _, ok := SelectBackend("keyword").(Keyword); !ok {
		t.Error(`SelectBackend("keyword") should return a Keyword backend`)
	}
	if _, ok := SelectBackend("noop").(Noop); !ok {
		t.Error(`SelectBackend("noop") should return a Noop backend`)
	}
	if _, ok := SelectBackend("").(Noop); !ok {
		t.Error(`SelectBackend("") should fall back to Noop`)
	}
}
