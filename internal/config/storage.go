package config

type StorageConfig interface {
	GetSessionStorageKey() string
	GetPrefsStorageKey() string
}

type Storage struct{}

var _ StorageConfig = Storage{}

func (Storage) GetSessionStorageKey() string {
	return "auth-storage"
}

func (Storage) GetPrefsStorageKey() string {
	return "ui-storage"
}
