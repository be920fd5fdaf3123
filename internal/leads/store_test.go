package leads

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir(), "tenant-key-1")
	assert.NoError(t, err)
	return store
}

func TestStoreAddAssignsIDAndPersists(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir, "tenant-key-1")
	assert.NoError(t, err)

	lead, err := store.Add(&Lead{Nome: "Maria", Email: "maria@exemplo.com.br"})
	assert.NoError(t, err)
	assert.NotEmpty(t, lead.ID)
	assert.False(t, lead.CreatedAt.IsZero())

	// a fresh store over the same directory sees the lead
	reopened, err := NewStore(dir, "tenant-key-1")
	assert.NoError(t, err)
	assert.Equal(t, 1, reopened.Count())
	assert.Equal(t, "Maria", reopened.GetByID(lead.ID).Nome)
}

func TestStoreFindByEmailCaseInsensitive(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Add(&Lead{Nome: "João", Email: "Joao@Exemplo.com.br"})
	assert.NoError(t, err)

	assert.NotNil(t, store.FindByEmail("joao@exemplo.com.br"))
	assert.Nil(t, store.FindByEmail("outro@exemplo.com.br"))
}

func TestStoreListNewestFirst(t *testing.T) {
	store := newTestStore(t)
	_, _ = store.Add(&Lead{Nome: "Primeiro", Email: "a@exemplo.com.br"})
	_, _ = store.Add(&Lead{Nome: "Segundo", Email: "b@exemplo.com.br"})

	list := store.List()
	assert.Len(t, list, 2)
	assert.Equal(t, "Segundo", list[0].Nome)
}

func TestStoreUpdateJourneyStage(t *testing.T) {
	store := newTestStore(t)
	lead, _ := store.Add(&Lead{Nome: "Ana", Email: "ana@exemplo.com.br"})

	assert.NoError(t, store.UpdateJourneyStage(lead.ID, "negociacao"))
	assert.Equal(t, "negociacao", store.GetByID(lead.ID).JourneyStage)

	assert.Error(t, store.UpdateJourneyStage("inexistente", "negociacao"))
}

func TestStoreAppendConversation(t *testing.T) {
	store := newTestStore(t)
	lead, _ := store.Add(&Lead{Nome: "Ana", Email: "ana@exemplo.com.br"})

	assert.NoError(t, store.AppendConversation(lead.ID, "quanto custa?", true))
	assert.NoError(t, store.AppendConversation(lead.ID, "R$ 197,00", false))

	got := store.GetByID(lead.ID)
	assert.Len(t, got.Conversation, 2)
	assert.True(t, got.Conversation[0].FromVisitor)
	assert.False(t, got.Conversation[1].FromVisitor)
}

func TestStoreTenantIsolation(t *testing.T) {
	dir := t.TempDir()
	first, _ := NewStore(dir, "tenant-a")
	second, _ := NewStore(dir, "tenant-b")

	_, err := first.Add(&Lead{Nome: "Só do A", Email: "a@exemplo.com.br"})
	assert.NoError(t, err)

	assert.Equal(t, 1, first.Count())
	assert.Equal(t, 0, second.Count())
}

func TestStoreCorruptFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "leads_tenant.json")
	assert.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := NewStore(dir, "tenant")
	assert.Error(t, err)
}

func TestBackupAndRestore(t *testing.T) {
	store := newTestStore(t)
	lead, _ := store.Add(&Lead{Nome: "Maria", Email: "maria@exemplo.com.br"})

	info, err := store.Backup()
	assert.NoError(t, err)
	assert.Equal(t, 1, info.LeadCount)

	// mutate after the backup, then restore
	_, _ = store.Add(&Lead{Nome: "Extra", Email: "extra@exemplo.com.br"})
	assert.Equal(t, 2, store.Count())

	assert.NoError(t, store.Restore(info.Filename))
	assert.Equal(t, 1, store.Count())
	assert.NotNil(t, store.GetByID(lead.ID))
}

func TestListBackupsNewestFirst(t *testing.T) {
	store := newTestStore(t)
	_, _ = store.Add(&Lead{Nome: "Maria", Email: "maria@exemplo.com.br"})

	first, err := store.Backup()
	assert.NoError(t, err)

	backups, err := store.ListBackups()
	assert.NoError(t, err)
	assert.Len(t, backups, 1)
	assert.Equal(t, first.Filename, backups[0].Filename)
}

func TestRestoreRejectsPathTraversal(t *testing.T) {
	store := newTestStore(t)
	assert.Error(t, store.Restore("../leads_tenant-key-1.json"))
	assert.Error(t, store.Restore("outro_arquivo.json"))
}

func TestRegistryReturnsSameStore(t *testing.T) {
	registry := NewRegistry(t.TempDir())

	a, err := registry.StoreFor("key-1")
	assert.NoError(t, err)
	b, err := registry.StoreFor("key-1")
	assert.NoError(t, err)
	c, err := registry.StoreFor("key-2")
	assert.NoError(t, err)

	assert.Same(t, a, b)
	assert.NotSame(t, a, c)
}
