package query

import (
	"github.com/bobboyms/kvstore/pkg/types"
)

// KeyRange descreve o intervalo de um range scan.
// Bounds são INCLUSIVOS nos dois lados; nil significa ilimitado.
type KeyRange struct {
	Start types.Comparable
	End   types.Comparable
}

// Between constrói um range [start, end]
func Between(start, end types.Comparable) *KeyRange {
	return &KeyRange{Start: start, End: end}
}

// StartKey retorna a chave inicial para otimizar o scan via Seek.
// nil = scan desde o começo da árvore.
func (r *KeyRange) StartKey() types.Comparable {
	return r.Start
}

// Matches verifica se uma chave está dentro do intervalo
func (r *KeyRange) Matches(key types.Comparable) bool {
	if r.Start != nil && key.Compare(r.Start) < 0 {
		return false
	}
	if r.End != nil && key.Compare(r.End) > 0 {
		return false
	}
	return true
}

// ShouldContinue indica se o scan deve prosseguir após esta chave.
// Como as folhas são percorridas em ordem crescente, passar do limite
// superior encerra o scan.
func (r *KeyRange) ShouldContinue(key types.Comparable) bool {
	if r.End == nil {
		return true
	}
	return key.Compare(r.End) <= 0
}
