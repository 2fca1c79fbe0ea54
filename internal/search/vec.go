package search

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"math"

	"samforge/internal/logging"
	"samforge/internal/warehouse"
)

// detectVecExtension probes for vec0 virtual table support.
func detectVecExtension(store *warehouse.Store) bool {
	if _, err := store.Exec(
		"CREATE VIRTUAL TABLE IF NOT EXISTS vec_probe USING vec0(embedding float[4])"); err != nil {
		return false
	}
	_, _ = store.Exec("DROP TABLE IF EXISTS vec_probe")
	return true
}

// buildVectorIndex embeds every indexed document and stores the vectors in
// both the index table and a vec0 side table for ANN queries.
func (b *Builder) buildVectorIndex(ctx context.Context, serviceName string) error {
	timer := logging.StartTimer(logging.CategorySearch, "buildVectorIndex")
	defer timer.Stop()

	index := b.IndexTable(serviceName)
	vecIdx := b.vecTable(serviceName)

	rows, err := b.store.Query("SELECT document_id, document_text FROM " + index)
	if err != nil {
		return err
	}
	var ids, texts []string
	for rows.Next() {
		var id, text string
		if err := rows.Scan(&id, &text); err != nil {
			rows.Close()
			return err
		}
		ids = append(ids, id)
		texts = append(texts, text)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}

	vecs, err := b.engine.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed corpus: %w", err)
	}

	if _, err := b.store.Exec("DROP TABLE IF EXISTS " + vecIdx); err != nil {
		return err
	}
	if _, err := b.store.Exec(fmt.Sprintf(
		"CREATE VIRTUAL TABLE %s USING vec0(document_id TEXT, embedding float[%d])",
		vecIdx, b.engine.Dimensions())); err != nil {
		return err
	}

	for i, id := range ids {
		blob := encodeFloat32Blob(vecs[i])
		if _, err := b.store.Exec(fmt.Sprintf(
			"INSERT INTO %s (document_id, embedding) VALUES (?, ?)", vecIdx), id, blob); err != nil {
			return err
		}
		if _, err := b.store.Exec(fmt.Sprintf(
			"UPDATE %s SET embedding = ? WHERE document_id = ?", index), blob, id); err != nil {
			return err
		}
	}

	logging.SearchDebug("Vector index %s holds %d embeddings", vecIdx, len(ids))
	return nil
}

// encodeFloat32Blob encodes a float32 slice little-endian, the layout
// sqlite-vec expects.
func encodeFloat32Blob(vec []float32) []byte {
	buf := new(bytes.Buffer)
	for _, v := range vec {
		binary.Write(buf, binary.LittleEndian, math.Float32bits(v))
	}
	return buf.Bytes()
}
