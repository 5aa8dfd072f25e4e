package tags

import (
	"errors"
	"strings"
	"testing"

	"github.com/npillmayer/mathtags/config"
	"github.com/npillmayer/mathtags/mml"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestStartEndNesting(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mathtags.tags")
	defer teardown()
	//
	tags := NewAmsTags()
	root := tags.CurrentTag()
	tags.Start("gather", true, true)
	outer := tags.CurrentTag()
	tags.Start("split", false, false)
	tags.Start("aligned", false, false)
	if tags.Depth() != 3 || tags.Env() != "aligned" {
		t.Fatalf("expected depth 3 in 'aligned', have %d in %q", tags.Depth(), tags.Env())
	}
	for i := 0; i < 2; i++ {
		if err := tags.End(); err != nil {
			t.Fatal(err)
		}
	}
	if tags.CurrentTag() != outer {
		t.Errorf("expected to be back in gather, am in %s", tags.CurrentTag())
	}
	if err := tags.End(); err != nil {
		t.Fatal(err)
	}
	if tags.CurrentTag() != root || tags.Depth() != 0 {
		t.Errorf("expected outermost end to restore the root context")
	}
	h := tags.History()
	if len(h) != 3 || h[0].Env() != "aligned" || h[2].Env() != "gather" {
		t.Errorf("expected history in order of completion, is %v", h)
	}
}

func TestEndWithoutStart(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mathtags.tags")
	defer teardown()
	//
	tags := NewAmsTags()
	root := tags.CurrentTag()
	err := tags.End()
	if !errors.Is(err, ErrUnbalancedTagContext) {
		t.Fatalf("expected unbalanced tag context error, got %v", err)
	}
	if tags.CurrentTag() != root || len(tags.History()) != 0 {
		t.Errorf("expected engine to be unchanged after unbalanced end")
	}
	tags.Start("align", true, true)
	tags.AutoTag()
	if tag, _ := tags.CurrentTag().Tag(); tag != "1" {
		t.Errorf("expected engine to be usable after unbalanced end, tag = %q", tag)
	}
}

func TestAutoTagNumbersOnce(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mathtags.tags")
	defer teardown()
	//
	tags := NewAmsTags()
	tags.Start("align", true, true)
	tags.AutoTag()
	tags.AutoTag()
	if tags.Counter() != 1 {
		t.Errorf("expected counter to advance once, is %d", tags.Counter())
	}
	tags.ClearTag()
	tags.AutoTag()
	if tag, _ := tags.CurrentTag().Tag(); tag != "2" || tags.Counter() != 2 {
		t.Errorf("expected cleared context to be renumbered as 2, is %q", tag)
	}
}

func TestAlignScenario(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mathtags.tags")
	defer teardown()
	//
	tags := NewAmsTags()
	tags.Start("align", true, true)
	tags.AutoTag()
	ct := tags.CurrentTag()
	if tag, ok := ct.Tag(); !ok || tag != "1" || ct.TagFormat != "(1)" {
		t.Errorf("expected tag 1 formatted as (1), got %s", ct)
	}
	if err := tags.End(); err != nil {
		t.Fatal(err)
	}
	tags.Start("align", true, true)
	tags.AutoTag()
	if tag, _ := tags.CurrentTag().Tag(); tag != "2" {
		t.Errorf("expected second align to be numbered 2, is %q", tag)
	}
}

func TestNoTagSuppresses(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mathtags.tags")
	defer teardown()
	//
	tags := NewAmsTags()
	tags.Start("align*", true, false)
	tags.NoTag()
	node, err := tags.GetTag(false)
	if err != nil || node != nil {
		t.Errorf("expected no tag for suppressed context, got %v, err=%v", node, err)
	}
	tags.End()
	tags.Start("align", true, true)
	tags.NoTag()
	if node, _ := tags.GetTag(false); node != nil {
		t.Errorf("expected \\notag to suppress default numbering")
	}
	if tags.Counter() != 0 {
		t.Errorf("expected suppressed context not to consume a number")
	}
	tags.Tag("A", false)
	if node, _ := tags.GetTag(false); node == nil {
		t.Errorf("expected explicit tag to lift \\notag")
	}
}

func TestExplicitTagInUnnumberedEnvironment(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mathtags.tags")
	defer teardown()
	//
	tags := NewAmsTags()
	tags.Start("align*", true, false)
	if node, _ := tags.GetTag(false); node != nil {
		t.Errorf("expected no tag without \\tag in align*")
	}
	tags.Tag("*", false)
	node, err := tags.GetTag(false)
	if err != nil || node == nil {
		t.Fatalf("expected explicit tag to be materialized, err=%v", err)
	}
	if node.Kind() != mml.KindTableCell || node.TextContent() != "(*)" {
		t.Errorf("expected mtd with text (*), got\n%s", mml.Dump(node))
	}
	if node.AttributeString("id") != "mjx-eqn-*" {
		t.Errorf("expected id mjx-eqn-*, got %q", node.AttributeString("id"))
	}
	tags.End()
	tags.Start("split", false, false)
	tags.Tag("x", false)
	if node, _ := tags.GetTag(false); node != nil {
		t.Errorf("expected non-taggable context to never be tagged")
	}
}

func TestGetTagMaterializesLabel(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mathtags.tags")
	defer teardown()
	//
	tags := NewAmsTags()
	tags.Start("equation", true, true)
	tags.SetLabel("eq:euler")
	node, err := tags.GetTag(false)
	if err != nil {
		t.Fatal(err)
	}
	t.Logf("tag node =\n%s", mml.Dump(node))
	if node.AttributeString("id") != "mjx-eqn-eq:euler" {
		t.Errorf("expected id built from label, got %q", node.AttributeString("id"))
	}
	l, ok := tags.Labels()["eq:euler"]
	if !ok || l.Tag != "1" || l.ID != "mjx-eqn-eq:euler" {
		t.Errorf("expected label to be recorded, got %+v", l)
	}
	if !tags.Ids()["mjx-eqn-eq:euler"] {
		t.Errorf("expected id to be recorded")
	}
}

func TestIdsFromTagsWithoutLabelIds(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mathtags.tags")
	defer teardown()
	//
	opts := config.Default()
	opts.UseLabelIds = false
	tags := NewAmsTags().Configure(Configuration{Options: opts})
	tags.Start("equation", true, true)
	tags.SetLabel("my label")
	node, err := tags.GetTag(false)
	if err != nil {
		t.Fatal(err)
	}
	if node.AttributeString("id") != "mjx-eqn-1" {
		t.Errorf("expected id from tag number, got %q", node.AttributeString("id"))
	}
	if tags.FormatID("my label") != "mjx-eqn-my_label" {
		t.Errorf("expected white space in ids to be replaced, got %q", tags.FormatID("my label"))
	}
}

func TestDuplicateLabel(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mathtags.tags")
	defer teardown()
	//
	tags := NewAmsTags()
	for i := 0; i < 2; i++ {
		tags.Start("equation", true, true)
		tags.SetLabel("dup")
		if _, err := tags.GetTag(false); err != nil {
			t.Fatal(err)
		}
		tags.End()
	}
	if l := tags.Labels()["dup"]; l.Tag != "2" {
		t.Errorf("expected last label definition to win, got %+v", l)
	}
	var dupLabel, dupID bool
	for _, err := range tags.Diagnostics() {
		dupLabel = dupLabel || errors.Is(err, ErrDuplicateLabel)
		dupID = dupID || errors.Is(err, ErrDuplicateID)
	}
	if !dupLabel || !dupID {
		t.Errorf("expected duplicate label and id to be diagnosed, have %v", tags.Diagnostics())
	}
	tags.ClearDiagnostics()
	if len(tags.Diagnostics()) != 0 {
		t.Errorf("expected diagnostics to be cleared")
	}
}

func TestGetTagTwiceIsNotDuplicate(t *testing.T) {
	tags := NewAmsTags()
	tags.Start("equation", true, true)
	tags.SetLabel("once")
	tags.GetTag(false)
	tags.GetTag(false)
	if len(tags.Diagnostics()) != 0 {
		t.Errorf("expected re-materializing a tag to be harmless, have %v", tags.Diagnostics())
	}
}

func TestReset(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mathtags.tags")
	defer teardown()
	//
	tags := NewAmsTags()
	tags.Start("equation", true, true)
	tags.SetLabel("a")
	tags.GetTag(false)
	tags.End()
	tags.Reset(5, true)
	if tags.Offset() != 5 || len(tags.Labels()) != 1 || len(tags.Ids()) != 1 {
		t.Errorf("expected reset(5, true) to keep labels and set offset 5")
	}
	if len(tags.History()) != 0 {
		t.Errorf("expected reset to clear history")
	}
	if tags.Counter() != 1 {
		t.Errorf("expected reset to keep the counter, is %d", tags.Counter())
	}
	tags.Reset(0, false)
	if tags.Offset() != 0 || len(tags.Labels()) != 0 || len(tags.Ids()) != 0 {
		t.Errorf("expected reset(0, false) to clear labels and ids")
	}
}

func TestResetKeepsNumbering(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mathtags.tags")
	defer teardown()
	//
	tags := NewAmsTags()
	var texts []string
	for i := 0; i < 2; i++ {
		tags.Start("align", true, true)
		node, err := tags.GetTag(false)
		if err != nil || node == nil {
			t.Fatalf("expected a tag for equation %d, err=%v", i+1, err)
		}
		texts = append(texts, node.TextContent())
		tags.End()
		tags.Reset(0, true)
	}
	if texts[0] != "(1)" || texts[1] != "(2)" {
		t.Errorf("expected numbering to carry over reset, got %v", texts)
	}
	if len(tags.Diagnostics()) != 0 {
		t.Errorf("expected no duplicate ids, got %v", tags.Diagnostics())
	}
}

func TestRestart(t *testing.T) {
	tags := NewAmsTags()
	tags.Restart(5)
	tags.Start("equation", true, true)
	tags.AutoTag()
	if tag, _ := tags.CurrentTag().Tag(); tag != "6" {
		t.Errorf("expected numbering to continue after 5, tag = %q", tag)
	}
	tags.End()
	tags.Restart(-3)
	if tags.Counter() != 0 {
		t.Errorf("expected negative restart to clamp to 0, counter = %d", tags.Counter())
	}
}

func TestErrorTexts(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mathtags.tags")
	defer teardown()
	//
	for err, text := range map[error]string{
		ErrUnbalancedTagContext: "unbalanced tag context",
		ErrUnknownTagsVariant:   "unknown tags variant",
		ErrDuplicateLabel:       "duplicate label",
		ErrDuplicateID:          "duplicate equation id",
		ErrUnresolvedRef:        "reference to undefined label",
	} {
		if !strings.Contains(err.Error(), text) {
			t.Errorf("expected error text to contain %q, is %q", text, err.Error())
		}
	}
	tags := NewAmsTags()
	for i := 0; i < 2; i++ {
		tags.Start("align", true, true)
		tags.Tag("A", false)
		tags.GetTag(false)
		tags.End()
	}
	diag := tags.Diagnostics()
	if len(diag) != 1 || !errors.Is(diag[0], ErrDuplicateID) {
		t.Fatalf("expected one duplicate id diagnostic, got %v", diag)
	}
	if !strings.Contains(diag[0].Error(), `duplicate equation id: "mjx-eqn-A"`) {
		t.Errorf("expected diagnostic to name its kind and id, is %q", diag[0].Error())
	}
}

func TestFormatting(t *testing.T) {
	tags := NewAmsTags()
	if s := tags.FormatTag("7"); s != "(7)" {
		t.Errorf("expected (7), got %q", s)
	}
	if s := tags.FormatURL("eq:1", "http://x/y"); s != "http://x/y#eq%3A1" {
		t.Errorf("expected http://x/y#eq%%3A1, got %q", s)
	}
	if s := tags.FormatURL("a b/ü", ""); s != "#a%20b%2F%C3%BC" {
		t.Errorf("unexpected URL encoding %q", s)
	}
	if s := tags.FormatNumber(42); s != "42" {
		t.Errorf("expected 42, got %q", s)
	}
}

func TestEnTag(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mathtags.tags")
	defer teardown()
	//
	opts := config.Default()
	opts.TagSide = "left"
	tags := NewAmsTags().Configure(Configuration{Options: opts})
	tags.Start("equation", true, true)
	tag, _ := tags.GetTag(false)
	formula := mml.NewText("x")
	table, err := tags.EnTag(formula, tag)
	if err != nil {
		t.Fatal(err)
	}
	t.Logf("table =\n%s", mml.Dump(table))
	if table.Kind() != mml.KindTable || table.AttributeString("side") != "left" ||
		table.AttributeString("minlabelspacing") != "0.8em" || table.AttributeString("displaystyle") != "true" {
		t.Errorf("unexpected table attributes:\n%s", mml.Dump(table))
	}
	row, _ := table.Child(0)
	if row.Kind() != mml.KindLabeledRow || row.ChildCount() != 2 {
		t.Fatalf("expected labeled row with tag and cell:\n%s", mml.Dump(table))
	}
	if first, _ := row.Child(0); first != tag {
		t.Errorf("expected tag to be first in row")
	}
	if cell, _ := row.Child(1); cell.Kind() != mml.KindTableCell || formula.Parent() != cell {
		t.Errorf("expected formula to be wrapped in an mtd")
	}
}

type failingParser struct{}

func (failingParser) ParseFragment(string, map[string]interface{}) (*mml.Node, error) {
	return nil, errors.New("cannot parse")
}

func TestTagTypesettingFailureIsRecoverable(t *testing.T) {
	tags := NewAmsTags().Configure(Configuration{Parser: failingParser{}})
	tags.Start("equation", true, true)
	node, err := tags.GetTag(false)
	if err != nil || node == nil {
		t.Fatalf("expected a tag node despite parser failure, err=%v", err)
	}
	if ch, _ := node.Child(0); ch.Kind() != mml.KindError || ch.TextContent() != "(1)" {
		t.Errorf("expected merror in place of tag content:\n%s", mml.Dump(node))
	}
	if len(tags.Diagnostics()) != 1 {
		t.Errorf("expected parser failure to be diagnosed")
	}
}
