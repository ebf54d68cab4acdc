package catalogue

import (
	"encoding/json"
	"testing"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"UNIT", KindUnit, false},
		{"unit", KindUnit, false},
		{"unique_unit", KindUniqueUnit, false},
		{"uniqueunit", KindUniqueUnit, false},
		{"building", KindBuilding, false},
		{"tech", KindTechnology, false},
		{" Technology ", KindTechnology, false},
		{"monk", "", true},
	}
	for _, tt := range tests {
		got, err := ParseKind(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseKind(%q) = %q, %v; want %q, err %v", tt.in, got, err, tt.want, tt.wantErr)
		}
	}
}

func TestNumericIDAndFormat(t *testing.T) {
	tests := []struct {
		id   string
		want int
	}{
		{"building_72", 72},
		{"unit_4", 4},
		{"tech_93", 93},
		{"17", 17},
	}
	for _, tt := range tests {
		got, err := NumericID(tt.id)
		if err != nil || got != tt.want {
			t.Errorf("NumericID(%q) = %d, %v; want %d", tt.id, got, err, tt.want)
		}
	}
	if _, err := NumericID("unit_"); err == nil {
		t.Error("expected error for empty numeric part")
	}

	if got := FormatID(KindUniqueUnit, 8); got != "unit_8" {
		t.Errorf("FormatID = %q", got)
	}
	if got := FormatID(KindTechnology, 3); got != "tech_3" {
		t.Errorf("FormatID = %q", got)
	}
}

func TestConnectionUnmarshal(t *testing.T) {
	var conns []Connection
	data := `[["a","b"], {"parent":"b","child":"c"}]`
	if err := json.Unmarshal([]byte(data), &conns); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(conns) != 2 || conns[0].ID() != "a->b" || conns[1].ID() != "b->c" {
		t.Errorf("conns = %+v", conns)
	}

	if err := json.Unmarshal([]byte(`[["a","b","c"]]`), &conns); err == nil {
		t.Error("expected error for a 3-element pair")
	}
}

func TestDisplayName(t *testing.T) {
	cat := New()
	cat.Strings[10] = "Archer"
	cat.Strings[20] = "Castle"
	cat.Stats.Put(&Entity{Kind: KindUnit, ID: 4, NameStringID: 10})

	tests := []struct {
		node Node
		want string
	}{
		{Node{ID: "unit_4", Kind: KindUnit, Name: "ignored"}, "Archer"},
		{Node{ID: "building_82", Kind: KindBuilding, Name: "20"}, "Castle"},
		{Node{ID: "building_276", Kind: KindBuilding, Name: "Wonder"}, "Wonder"},
		{Node{ID: "tech_1", Kind: KindTechnology}, "tech_1"},
	}
	for _, tt := range tests {
		if got := cat.DisplayName(tt.node); got != tt.want {
			t.Errorf("DisplayName(%s) = %q, want %q", tt.node.ID, got, tt.want)
		}
	}
}

func TestEntityJSONRoundTrip(t *testing.T) {
	raw := `{"LanguageNameId":1,"LanguageHelpId":2,"HP":150,"Cost":{"Wood":2}}`
	var e Entity
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		t.Fatal(err)
	}
	if e.Stats == nil || *e.Stats.HP != 150 || *e.Stats.Cost.Wood != 2 {
		t.Fatalf("decoded = %+v", e.Stats)
	}

	out, err := json.Marshal(e)
	if err != nil {
		t.Fatal(err)
	}
	var back Entity
	if err := json.Unmarshal(out, &back); err != nil {
		t.Fatal(err)
	}
	if back.NameStringID != 1 || back.HelpStringID != 2 || *back.Stats.HP != 150 {
		t.Errorf("round trip lost fields: %s", out)
	}

	var bare Entity
	if err := json.Unmarshal([]byte(`{"LanguageNameId":5}`), &bare); err != nil {
		t.Fatal(err)
	}
	if bare.Stats != nil {
		t.Error("record without stat fields should have nil Stats")
	}
}
