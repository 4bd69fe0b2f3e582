package filestorage

import "io"

// FileStorageInterface é o contrato do armazenamento de fotos. O caminho
// retornado é relativo e servido como URL estática pelo servidor.
type FileStorageInterface interface {
	Save(file io.Reader, originalFileName string, prefix string) (filePath string, err error)
	Delete(filePath string) error
}
