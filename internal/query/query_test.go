package query

import (
	"testing"

	"github.com/jntun/rave/internal/nbt"
)

func tag(name string, p nbt.Payload) nbt.Tag {
	return nbt.Tag{Name: []byte(name), Payload: p}
}

func TestFindManyByNameDirectMember(t *testing.T) {
	root := &nbt.Tag{
		Payload: nbt.PCompound{Tags: []nbt.Tag{
			tag("Name", nbt.PString("hello")),
			tag("Age", nbt.PInt(3)),
		}},
	}

	found := FindManyByName(root, []byte("Name"))
	if len(found) != 1 {
		t.Fatalf("len(found) = %d, want 1", len(found))
	}
	if string(found[0].Payload.(nbt.PString)) != "hello" {
		t.Fatalf("unexpected match: %+v", found[0])
	}
}

func TestFindManyByNameDoesNotDescendIntoAMatch(t *testing.T) {
	root := &nbt.Tag{
		Payload: nbt.PCompound{Tags: []nbt.Tag{
			tag("Level", nbt.PCompound{Tags: []nbt.Tag{
				tag("Level", nbt.PInt(1)),
			}}),
		}},
	}

	found := FindManyByName(root, []byte("Level"))
	if len(found) != 1 {
		t.Fatalf("len(found) = %d, want 1 (inner match must not also be returned)", len(found))
	}
}

func TestFindManyByNameSearchesListsOfCompounds(t *testing.T) {
	root := &nbt.Tag{
		Payload: nbt.PCompound{Tags: []nbt.Tag{
			tag("Items", nbt.PList{
				ElemType: nbt.IDCompound,
				Items: []nbt.Payload{
					nbt.PCompound{Tags: []nbt.Tag{tag("id", nbt.PString("stone"))}},
					nbt.PCompound{Tags: []nbt.Tag{tag("id", nbt.PString("dirt"))}},
				},
			}),
		}},
	}

	found := FindManyByName(root, []byte("id"))
	if len(found) != 2 {
		t.Fatalf("len(found) = %d, want 2", len(found))
	}
}

func TestFindManyByNameNonCompoundListIsSkipped(t *testing.T) {
	root := &nbt.Tag{
		Payload: nbt.PCompound{Tags: []nbt.Tag{
			tag("Pos", nbt.PList{ElemType: nbt.IDDouble, Items: []nbt.Payload{
				nbt.PDouble(1), nbt.PDouble(2), nbt.PDouble(3),
			}}),
		}},
	}

	found := FindManyByName(root, []byte("Pos"))
	if len(found) != 1 {
		t.Fatalf("len(found) = %d, want 1 (the list tag itself, not its elements)", len(found))
	}
}

func TestFindOneByNameNotFound(t *testing.T) {
	root := &nbt.Tag{Payload: nbt.PCompound{}}
	_, err := FindOneByName(root, []byte("missing"))
	if err != ErrNotFound {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
