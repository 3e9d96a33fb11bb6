package snapshot

import (
	"encoding/json"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestLevelUnmarshalJSON(t *testing.T) {
	tests := []struct {
		input   string
		want    Level
		wantErr bool
	}{
		{`2`, LevelOf(2), false},
		{`0`, LevelOf(0), false},
		{`null`, Undefined, false},
		{`"undefined"`, Undefined, false},
		{`"Undefined"`, Undefined, false},
		{`"leaf"`, LevelOf(LeafLevel), false},
		{`"leaf-to-leaf"`, LevelOf(LeafLevel), false},
		{`"top-of-fabric"`, LevelOf(TopOfFabricLevel), false},
		{`"7"`, LevelOf(7), false},
		{`{"Value": 3}`, LevelOf(3), false},

		{`-1`, Undefined, true},
		{`1.5`, Undefined, true},
		{`"superspine"`, Undefined, true},
		{`{"Other": 3}`, Undefined, true},
		{`[1]`, Undefined, true},
		{`true`, Undefined, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var got Level
			err := json.Unmarshal([]byte(tt.input), &got)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Unmarshal(%s) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("Unmarshal(%s) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestLevelUnmarshalYAML(t *testing.T) {
	tests := []struct {
		input   string
		want    Level
		wantErr bool
	}{
		{"level: 4", LevelOf(4), false},
		{"level: top-of-fabric", LevelOf(TopOfFabricLevel), false},
		{"level: undefined", Undefined, false},
		{"level: {Value: 1}", LevelOf(1), false},
		{"level: ~", Undefined, false},
		{"level: -3", Undefined, true},
		{"level: spine", Undefined, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var doc struct {
				Level Level `yaml:"level"`
			}
			err := yaml.Unmarshal([]byte(tt.input), &doc)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Unmarshal(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err == nil && doc.Level != tt.want {
				t.Errorf("Unmarshal(%q) = %v, want %v", tt.input, doc.Level, tt.want)
			}
		})
	}
}

func TestLevelMarshalJSON(t *testing.T) {
	data, err := json.Marshal(struct {
		A Level `json:"a"`
		B Level `json:"b"`
	}{LevelOf(3), Undefined})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if got, want := string(data), `{"a":3,"b":null}`; got != want {
		t.Errorf("Marshal() = %s, want %s", got, want)
	}
}

func TestLevelCompare(t *testing.T) {
	tests := []struct {
		a, b   Level
		cmp    int
		wantOK bool
	}{
		{LevelOf(2), LevelOf(1), 1, true},
		{LevelOf(1), LevelOf(2), -1, true},
		{LevelOf(1), LevelOf(1), 0, true},
		{Undefined, LevelOf(1), 0, false},
		{LevelOf(1), Undefined, 0, false},
		{Undefined, Undefined, 0, false},
	}

	for _, tt := range tests {
		cmp, ok := tt.a.Compare(tt.b)
		if cmp != tt.cmp || ok != tt.wantOK {
			t.Errorf("%v.Compare(%v) = (%d, %v), want (%d, %v)", tt.a, tt.b, cmp, ok, tt.cmp, tt.wantOK)
		}
	}
}

func TestLevelString(t *testing.T) {
	if got := LevelOf(24).String(); got != "24" {
		t.Errorf("String() = %q, want %q", got, "24")
	}
	if got := Undefined.String(); got != "undefined" {
		t.Errorf("String() = %q, want %q", got, "undefined")
	}
}
