package engine

import "testing"

func TestDetectCategory(t *testing.T) {
	tests := []struct {
		topic string
		want  Category
	}{
		{"python tutorial", CatPython},
		{"Python Django", CatPython},
		{"javascript tutorial", CatJavaScript},
		{"node js tutorial", CatJavaScript},
		{"java spring boot", CatJava},
		{"web development", CatWeb},
		{"html css basics", CatWeb},
		{"rust tutorial", CatGeneral},
		{"", CatGeneral},
		// "js" matches as a substring, so json leans javascript.
		{"json parsing", CatJavaScript},
	}
	for _, tt := range tests {
		t.Run(tt.topic, func(t *testing.T) {
			if got := DetectCategory(tt.topic); got != tt.want {
				t.Errorf("DetectCategory(%q) = %q, want %q", tt.topic, got, tt.want)
			}
		})
	}
}
