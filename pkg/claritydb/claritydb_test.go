package claritydb

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/clarity-vm/context/pkg/clarity"
	"github.com/clarity-vm/context/pkg/clarityerr"
	"github.com/clarity-vm/context/pkg/contractctx"
)

func TestGetContractMissing(t *testing.T) {
	db := MemoryDB()
	_, err := db.GetContract("nope")
	require.Error(t, err)
}

func TestInsertAndGetContractTopLevel(t *testing.T) {
	db := MemoryDB()
	sc := &contractctx.StoredContract{Name: "c", Source: "(define-variable x 1)", Context: contractctx.New("c")}
	require.NoError(t, db.InsertContract("c", sc))

	got, err := db.GetContract("c")
	require.NoError(t, err)
	require.Same(t, sc, got)
}

func TestRollBackDiscardsInsertedContract(t *testing.T) {
	db := MemoryDB()
	db.Begin()
	sc := &contractctx.StoredContract{Name: "c", Source: "src", Context: contractctx.New("c")}
	require.NoError(t, db.InsertContract("c", sc))

	_, err := db.GetContract("c")
	require.NoError(t, err, "visible within the open frame")

	db.RollBack()
	_, err = db.GetContract("c")
	require.Error(t, err, "discarded on roll_back")
}

func TestCommitBubblesIntoParentFrame(t *testing.T) {
	db := MemoryDB()
	db.Begin() // outer
	db.Begin() // inner
	sc := &contractctx.StoredContract{Name: "c", Source: "src", Context: contractctx.New("c")}
	require.NoError(t, db.InsertContract("c", sc))
	require.NoError(t, db.Commit()) // inner commits into outer

	_, err := db.GetContract("c")
	require.NoError(t, err)

	db.RollBack() // outer rolls back, discarding everything
	_, err = db.GetContract("c")
	require.Error(t, err)
}

func TestCommitAtTopLevelPersistsDurably(t *testing.T) {
	db := MemoryDB()
	db.Begin()
	sc := &contractctx.StoredContract{Name: "c", Source: "src", Context: contractctx.New("c")}
	require.NoError(t, db.InsertContract("c", sc))
	require.NoError(t, db.Commit())

	v, err := db.baseStore.Get(contractSourceKey("c"))
	require.NoError(t, err)
	require.Equal(t, "src", string(v))
}

func TestVariableRollsBackWithFrame(t *testing.T) {
	db := MemoryDB()
	db.Begin()
	require.NoError(t, db.SetVariable("c", "x", clarity.NewInt(42)))

	v, err := db.GetVariable("c", "x")
	require.NoError(t, err)
	require.Equal(t, "42", v.String())

	db.RollBack()
	_, err = db.GetVariable("c", "x")
	require.ErrorIs(t, err, clarityerr.ErrKeyNotFound)
}

func TestVariableCommitBubblesAndPersists(t *testing.T) {
	db := MemoryDB()
	db.Begin()
	db.Begin()
	stored := clarity.Ok(clarity.PrincipalValue{P: clarity.PrincipalFromSeed([]byte("p"))})
	require.NoError(t, db.SetVariable("c", "owner", stored))
	require.NoError(t, db.Commit())

	v, err := db.GetVariable("c", "owner")
	require.NoError(t, err)
	require.Equal(t, stored, v)

	require.NoError(t, db.Commit())
	v, err = db.GetVariable("c", "owner")
	require.NoError(t, err)
	require.Equal(t, stored, v)
}

func TestNestedBeginCommitRollBackBalance(t *testing.T) {
	db := MemoryDB()
	db.Begin()
	db.Begin()
	db.Begin()
	require.NoError(t, db.Commit())
	require.NoError(t, db.Commit())
	db.RollBack()
	require.Equal(t, 0, len(db.kv))
	require.Equal(t, 0, len(db.contracts))
}
