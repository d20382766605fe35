package prompt

import (
	"errors"
	"fmt"
	"strings"

	"recipe-recommender/internal/core/recipe"
)

// Intent 請求意圖
type Intent string

const (
	IntentSingle       Intent = "single"
	IntentBatch        Intent = "batch"
	IntentPreference   Intent = "preference"
	IntentConnectivity Intent = "connectivity"
	IntentCatalogSeed  Intent = "catalog_seed"
)

// DefaultBatchSize 批次生成的預設數量
const DefaultBatchSize = 5

// ErrUnknownIntent 未定義的意圖
var ErrUnknownIntent = errors.New("unknown prompt intent")

// Budget 每個意圖的取樣溫度與 token 上限
type Budget struct {
	Temperature float64
	MaxTokens   int
}

var budgets = map[Intent]Budget{
	IntentSingle:       {Temperature: 0.8, MaxTokens: 800},
	IntentBatch:        {Temperature: 0.9, MaxTokens: 2500},
	IntentPreference:   {Temperature: 0.9, MaxTokens: 2000},
	IntentConnectivity: {Temperature: 0.7, MaxTokens: 500},
	IntentCatalogSeed:  {Temperature: 0.7, MaxTokens: 2000},
}

// Budget 回傳意圖對應的預算；未知意圖回傳 false
func (i Intent) Budget() (Budget, bool) {
	b, ok := budgets[i]
	return b, ok
}

func (i Intent) Valid() bool {
	_, ok := budgets[i]
	return ok
}

// Params 建立提示詞所需的參數，依意圖使用其中一部分
type Params struct {
	Ingredients []string
	Count       int
	Preferences recipe.Preferences
}

const jsonOnly = "Rispondi SOLO con il JSON, senza testo aggiuntivo."

// Build 由意圖與參數產生送往模型的提示詞，純函式
func Build(intent Intent, p Params) (string, error) {
	switch intent {
	case IntentSingle:
		return buildSingle(p.Ingredients), nil
	case IntentBatch:
		return buildBatch(p.Ingredients, p.Count), nil
	case IntentPreference:
		return buildPreference(p.Preferences), nil
	case IntentConnectivity:
		return connectivityPrompt, nil
	case IntentCatalogSeed:
		return catalogSeedPrompt, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownIntent, intent)
	}
}

func buildSingle(ingredients []string) string {
	list := strings.Join(ingredients, ", ")
	if len(ingredients) == 0 {
		list = "ingredienti base comuni (uova, farina, sale, olio)"
	}

	return fmt.Sprintf(`Genera UNA ricetta italiana in formato JSON usando principalmente questi ingredienti: %s. 
La ricetta deve essere creativa e utilizzare il più possibile gli ingredienti forniti, aggiungendo altri ingredienti comuni se necessario.
Formato JSON:
{
  "nome": "Nome Ricetta",
  "ingredienti": ["ingrediente1", "ingrediente2", "ingrediente3"],
  "tempoPreparazione": 30,
  "immagine": "https://source.unsplash.com/400x300/?[parole chiave per immagine cibo, separate da virgola]"
}

IMPORTANTE: Per il campo "immagine", genera un URL Unsplash con parole chiave specifiche e rilevanti per la ricetta. 
Usa parole chiave in inglese che descrivono il piatto (es: "pasta,tomato,basil" per pasta al pomodoro, o "omelette,eggs" per frittata).
Il formato deve essere: https://source.unsplash.com/400x300/?parola1,parola2,parola3
%s`, list, jsonOnly)
}

func buildBatch(ingredients []string, count int) string {
	if count <= 0 {
		count = DefaultBatchSize
	}

	return fmt.Sprintf(`Genera %d ricette italiane diverse e creative in formato JSON usando principalmente questi ingredienti: %s. 
Ogni ricetta deve essere unica, creativa e utilizzare il più possibile gli ingredienti forniti, aggiungendo altri ingredienti comuni se necessario.
Le ricette devono essere pratiche, realizzabili e appetitose.

Formato JSON:
[
  {
    "nome": "Nome Ricetta 1",
    "ingredienti": ["ingrediente1", "ingrediente2", "ingrediente3"],
    "tempoPreparazione": 30,
    "immagine": "https://source.unsplash.com/400x300/?[parole chiave]",
    "descrizione": "Breve descrizione della ricetta"
  },
  {
    "nome": "Nome Ricetta 2",
    ...
  }
]

IMPORTANTE: 
- Per ogni ricetta, genera un URL Unsplash con parole chiave specifiche in inglese (es: "pasta,tomato,basil").
- Le ricette devono essere diverse tra loro (non ripetere lo stesso tipo di piatto).
- Ogni ricetta deve essere sensata e utilizzare principalmente gli ingredienti forniti.
- La descrizione deve essere breve (1-2 frasi) e descrivere il piatto.

%s`, count, strings.Join(ingredients, ", "), jsonOnly)
}

func buildPreference(p recipe.Preferences) string {
	var b strings.Builder
	b.WriteString("Genera una ricetta personalizzata in formato JSON basata sulle seguenti preferenze:\n\n")

	// 只寫入有填的欄位
	if v := strings.TrimSpace(p.CuisineType); v != "" {
		fmt.Fprintf(&b, "- Tipo di cucina: %s\n", v)
	}
	if v := strings.TrimSpace(p.MealType); v != "" {
		fmt.Fprintf(&b, "- Tipo di pasto: %s\n", v)
	}
	if diet := p.DietaryRestrictions(); len(diet) > 0 {
		fmt.Fprintf(&b, "- Restrizioni dietetiche: %s\n", strings.Join(diet, ", "))
	}
	if v := strings.TrimSpace(p.PreferredIngredients); v != "" {
		fmt.Fprintf(&b, "- Ingredienti preferiti: %s\n", v)
	}
	if p.MaxTimeMinutes > 0 {
		fmt.Fprintf(&b, "- Tempo massimo di preparazione: %d minuti\n", p.MaxTimeMinutes)
	}
	if v := strings.TrimSpace(p.Additional); v != "" {
		fmt.Fprintf(&b, "- Altre preferenze: %s\n", v)
	}

	b.WriteString(preferenceFormat)
	b.WriteString(jsonOnly)
	return b.String()
}

const preferenceFormat = `
Formato JSON richiesto:
{
  "nome": "Nome della Ricetta",
  "ingredienti": ["ingrediente1", "ingrediente2", "ingrediente3"],
  "tempoPreparazione": 30,
  "immagine": "https://source.unsplash.com/400x300/?[parole chiave per immagine cibo]",
  "descrizione": "Breve descrizione della ricetta (2-3 frasi)",
  "istruzioni": [
    "Passo 1: descrizione dettagliata del primo passaggio",
    "Passo 2: descrizione dettagliata del secondo passaggio",
    "Passo 3: descrizione dettagliata del terzo passaggio",
    "..."
  ]
}

IMPORTANTE: 
- Per il campo "immagine", genera un URL Unsplash con parole chiave specifiche e rilevanti per la ricetta.
  Usa parole chiave in inglese che descrivono il piatto (es: "pasta,tomato,italian" per pasta al pomodoro).
  Il formato deve essere: https://source.unsplash.com/400x300/?parola1,parola2,parola3
- Per il campo "istruzioni", fornisci una lista completa e dettagliata di tutti i passaggi necessari per preparare la ricetta.
  Ogni passaggio deve essere chiaro, sequenziale e facile da seguire. Include almeno 4-6 passaggi.
La ricetta deve essere creativa, appetitosa e rispettare tutte le preferenze indicate. 
`

const connectivityPrompt = `Genera UNA ricetta italiana semplice in formato JSON usando principalmente questi ingredienti: uova, farina. 
La ricetta deve avere:
- nome: stringa
- ingredienti: array di stringhe (include almeno uova e farina, aggiungi altri ingredienti comuni)
- tempoPreparazione: numero (in minuti)
- immagine: URL da Unsplash (formato: https://source.unsplash.com/400x300/?[nome ricetta])

` + jsonOnly

const catalogSeedPrompt = `Genera 6 ricette italiane in formato JSON. Ogni ricetta deve avere:
- nome: stringa
- ingredienti: array di stringhe (almeno 3-5 ingredienti)
- tempoPreparazione: numero (in minuti)
- immagine: URL da Unsplash (formato: https://source.unsplash.com/400x300/?[nome ricetta])

Formato JSON:
[
  {
    "nome": "Nome Ricetta",
    "ingredienti": ["ingrediente1", "ingrediente2", "ingrediente3"],
    "tempoPreparazione": 30,
    "immagine": "https://source.unsplash.com/400x300/?pasta"
  }
]

Ricette da creare: Pasta al pomodoro, Frittata di uova, Pancake, Insalata mista, Riso con verdure, Pizza margherita.
` + jsonOnly
