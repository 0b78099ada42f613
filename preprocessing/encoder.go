package preprocessing

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/plantcare/core/model"
	pcErrors "github.com/ezoic/plantcare/pkg/errors"
)

// OrdinalEncoder はカテゴリ文字列を固定の整数コードに変換するエンコーダー
// カテゴリの順序は宣言順がそのまま 0..k-1 のコードになる
type OrdinalEncoder struct {
	state *model.StateManager

	// FeatureNames は各特徴量の名前（エラーメッセージ用）
	FeatureNames []string

	// Categories は各特徴量のカテゴリ一覧（宣言順）
	Categories [][]string

	// CategoryToIdx は各特徴量のカテゴリ→コードマップ
	CategoryToIdx []map[string]int

	// NFeatures は入力特徴量数
	NFeatures int
}

// NewOrdinalEncoder creates an encoder from fixed, ordered category lists.
//
// Parameters:
//   - featureNames: one name per feature, used in EncodingError.Field
//   - categories: per feature, the categories in ordinal order
//
// Returns:
//   - *OrdinalEncoder: an encoder that is immediately usable
//   - error: ValueError for empty or duplicate categories
//
// Example:
//
//	enc, err := preprocessing.NewOrdinalEncoder(
//		[]string{"stage"},
//		[][]string{{"Seedling", "Vegetative", "Budding", "Flowering"}},
//	)
//	codes, err := enc.Transform([][]string{{"Budding"}}) // [[2]]
func NewOrdinalEncoder(featureNames []string, categories [][]string) (*OrdinalEncoder, error) {
	if len(categories) == 0 {
		return nil, pcErrors.NewValueError("OrdinalEncoder", "categories cannot be empty")
	}
	if len(featureNames) != len(categories) {
		return nil, pcErrors.NewDimensionError("OrdinalEncoder", len(categories), len(featureNames), 1)
	}

	e := &OrdinalEncoder{
		state:         model.NewStateManager(),
		FeatureNames:  append([]string(nil), featureNames...),
		Categories:    make([][]string, len(categories)),
		CategoryToIdx: make([]map[string]int, len(categories)),
		NFeatures:     len(categories),
	}

	for j, cats := range categories {
		if len(cats) == 0 {
			return nil, pcErrors.NewValueError("OrdinalEncoder",
				fmt.Sprintf("feature %q has no categories", featureNames[j]))
		}
		idx := make(map[string]int, len(cats))
		for code, c := range cats {
			if _, dup := idx[c]; dup {
				return nil, pcErrors.NewValueError("OrdinalEncoder",
					fmt.Sprintf("feature %q declares category %q twice", featureNames[j], c))
			}
			idx[c] = code
		}
		e.Categories[j] = append([]string(nil), cats...)
		e.CategoryToIdx[j] = idx
	}

	e.state.SetFitted()
	e.state.SetDimensions(e.NFeatures, 0)
	return e, nil
}

// Transform はカテゴリをコードに変換する
//
// 未知のカテゴリは EncodingError を返す（フォールバック値はない）
//
// パラメータ:
//   - data: n_samples × n_features の文字列スライス
//
// 戻り値:
//   - mat.Matrix: n_samples × n_features のコード行列
//   - error: エラーが発生した場合
func (e *OrdinalEncoder) Transform(data [][]string) (_ mat.Matrix, err error) {
	defer pcErrors.Recover(&err, "OrdinalEncoder.Transform")
	if !e.IsFitted() {
		return nil, pcErrors.NewNotFittedError("OrdinalEncoder", "Transform")
	}

	if len(data) == 0 {
		return nil, pcErrors.NewModelError("OrdinalEncoder.Transform", "empty data", pcErrors.ErrEmptyData)
	}

	result := mat.NewDense(len(data), e.NFeatures, nil)
	for i, row := range data {
		codes, err := e.TransformRow(row)
		if err != nil {
			return nil, err
		}
		result.SetRow(i, codes)
	}

	return result, nil
}

// TransformRow encodes one sample.
func (e *OrdinalEncoder) TransformRow(row []string) ([]float64, error) {
	if !e.IsFitted() {
		return nil, pcErrors.NewNotFittedError("OrdinalEncoder", "TransformRow")
	}
	if len(row) != e.NFeatures {
		return nil, pcErrors.NewDimensionError("OrdinalEncoder.TransformRow", e.NFeatures, len(row), 1)
	}

	codes := make([]float64, len(row))
	for j, category := range row {
		code, ok := e.CategoryToIdx[j][category]
		if !ok {
			return nil, pcErrors.NewUnknownCategoryError(e.FeatureNames[j], category)
		}
		codes[j] = float64(code)
	}
	return codes, nil
}

// Code returns the code of a single category of the named feature.
func (e *OrdinalEncoder) Code(feature, category string) (int, error) {
	for j, name := range e.FeatureNames {
		if name != feature {
			continue
		}
		code, ok := e.CategoryToIdx[j][category]
		if !ok {
			return 0, pcErrors.NewUnknownCategoryError(feature, category)
		}
		return code, nil
	}
	return 0, pcErrors.NewValueError("OrdinalEncoder.Code", fmt.Sprintf("unknown feature %q", feature))
}

// IsFitted reports whether the encoder was constructed with categories.
func (e *OrdinalEncoder) IsFitted() bool {
	return e != nil && e.state.IsFitted()
}

// GetFeatureNamesOut は特徴量の名前を返す
func (e *OrdinalEncoder) GetFeatureNamesOut() []string {
	return append([]string(nil), e.FeatureNames...)
}
