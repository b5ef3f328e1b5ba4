package db

import (
	"bytes"
	"encoding/binary"
	"os"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

const (
	headerMagic uint32 = 0x4b4b4442 // KKDB
)

var (
	dbHeaderSize = binary.Size(dbHeader{})
)

type dbHeader struct {
	Magic         uint32
	BlockSize     uint32
	CatalogBlocks uint32
	FileID        uuid.UUID
}

type dbFile struct {
	sink      Sink
	blockSize int
	hdr       dbHeader
}

func createFile(path string, catalogBlocks int) (*dbFile, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return newFile(fileSink{file}, catalogBlocks)
}

func openFile(path string) (*dbFile, error) {
	file, err := os.OpenFile(path, os.O_RDWR, 0644)
	if err != nil {
		return nil, err
	}
	return loadFile(fileSink{file})
}

func newFile(sink Sink, catalogBlocks int) (*dbFile, error) {
	df := &dbFile{
		sink:      sink,
		blockSize: BlockSize,
		hdr: dbHeader{
			Magic:         headerMagic,
			BlockSize:     uint32(BlockSize),
			CatalogBlocks: uint32(catalogBlocks),
			FileID:        uuid.New(),
		},
	}
	if err := df.writeHeader(&df.hdr); err != nil {
		err = multierr.Append(err, df.close())
		return nil, err
	}
	return df, nil
}

func loadFile(sink Sink) (*dbFile, error) {
	df := &dbFile{
		sink: sink,
	}
	hdr, err := df.readHeader()
	if err != nil {
		err = multierr.Append(err, df.close())
		return nil, err
	}
	if hdr.Magic != headerMagic {
		err = errors.Wrapf(ErrInvalidMagic, "got %#x", hdr.Magic)
		err = multierr.Append(err, df.close())
		return nil, err
	}
	if hdr.BlockSize != uint32(BlockSize) {
		err = errors.Errorf("db: block size %d does not match layout size %d", hdr.BlockSize, BlockSize)
		err = multierr.Append(err, df.close())
		return nil, err
	}
	df.hdr = hdr
	df.blockSize = int(hdr.BlockSize)
	return df, nil
}

func (file *dbFile) close() error {
	return file.sink.Close()
}

func (file *dbFile) readHeader() (hdr dbHeader, err error) {
	buf := make([]byte, dbHeaderSize)
	_, err = file.sink.ReadAt(buf, 0)
	if err != nil {
		err = errors.Wrap(err, "db: read file header")
		return
	}
	r := bytes.NewReader(buf)
	err = binary.Read(r, binary.LittleEndian, &hdr)
	return
}

func (file *dbFile) writeHeader(hdr *dbHeader) error {
	var buf bytes.Buffer
	err := binary.Write(&buf, binary.LittleEndian, hdr)
	if err != nil {
		return err
	}
	_, err = file.sink.WriteAt(buf.Bytes(), 0)
	return err
}

func (file *dbFile) offset(id BlockID) int64 {
	return int64(dbHeaderSize) + int64(id)*int64(file.blockSize)
}

func (file *dbFile) readBlock(id BlockID) (*Block, error) {
	n, err := file.numBlocks()
	if err != nil {
		return nil, err
	}
	if id < 0 || int(id) >= n {
		return nil, errors.Wrapf(ErrBlockOutOfRange, "block %d of %d", id, n)
	}
	buf := make([]byte, file.blockSize)
	if _, err := file.sink.ReadAt(buf, file.offset(id)); err != nil {
		return nil, errors.Wrapf(err, "db: read block %d", id)
	}
	return decodeBlock(id, buf)
}

func (file *dbFile) writeBlock(b *Block) error {
	_, err := file.sink.WriteAt(b.encode(), file.offset(b.ID))
	return errors.Wrapf(err, "db: write block %d", b.ID)
}

func (file *dbFile) numBlocks() (n int, err error) {
	size, err := file.sink.Size()
	if err != nil {
		return
	}
	size -= int64(dbHeaderSize)
	n = int(size / int64(file.blockSize))
	return
}

// addBlocks appends count free blocks and returns the id of the first one.
func (file *dbFile) addBlocks(count int) (BlockID, error) {
	n, err := file.numBlocks()
	if err != nil {
		return 0, err
	}
	first := BlockID(n)
	for i := 0; i < count; i++ {
		if err := file.writeBlock(newBlock(first + BlockID(i))); err != nil {
			return 0, err
		}
	}
	return first, nil
}
