package catalogue

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/ziadkadry99/techtree/internal/db"
)

func TestStoreRoundTrip(t *testing.T) {
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer database.Close()

	ctx := context.Background()
	src, err := Load(ctx, testdataDir(t), LoadOptions{Locale: "en"})
	if err != nil {
		t.Fatal(err)
	}

	store := NewStore(database)
	if err := store.Save(ctx, src, "en"); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.Load(ctx, "en")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if !reflect.DeepEqual(got.Layout, src.Layout) {
		t.Errorf("layout differs after round trip:\n got %+v\nwant %+v", got.Layout, src.Layout)
	}
	if !reflect.DeepEqual(got.Strings, src.Strings) {
		t.Error("strings differ after round trip")
	}
	if !reflect.DeepEqual(got.Civs, src.Civs) {
		t.Errorf("civs differ after round trip:\n got %+v\nwant %+v", got.Civs, src.Civs)
	}
	if !reflect.DeepEqual(got.Stats, src.Stats) {
		t.Error("stats differ after round trip")
	}

	wonder, err := got.EntityForNode(KindBuilding, "building_276")
	if err != nil {
		t.Fatal(err)
	}
	if wonder.Stats != nil {
		t.Error("missing stat record became an empty one")
	}
}

func TestStoreSaveReplaces(t *testing.T) {
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer database.Close()

	ctx := context.Background()
	store := NewStore(database)

	first := New()
	first.Layout.Nodes = []Node{{ID: "unit_1", Kind: KindUnit}, {ID: "unit_2", Kind: KindUnit}}
	first.Strings[1] = "one"
	if err := store.Save(ctx, first, "en"); err != nil {
		t.Fatal(err)
	}

	second := New()
	second.Layout.Nodes = []Node{{ID: "tech_9", Kind: KindTechnology}}
	if err := store.Save(ctx, second, "en"); err != nil {
		t.Fatal(err)
	}

	got, err := store.Load(ctx, "en")
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Layout.Nodes) != 1 || got.Layout.Nodes[0].ID != "tech_9" {
		t.Errorf("nodes = %+v", got.Layout.Nodes)
	}
	if len(got.Strings) != 0 {
		t.Errorf("strings of the same locale should be replaced, got %v", got.Strings)
	}
}

func TestStoreLoadEmpty(t *testing.T) {
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer database.Close()

	_, err = NewStore(database).Load(context.Background(), "en")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
