package analysis

import "strings"

// Prompts are the fixed texts sent around a hand document.
type Prompts struct {
	System string
	// Instruction wraps the document in the first user turn; "%s" marks
	// where the document goes.
	Instruction string
}

// Wrap places document into the instruction template.
func (p Prompts) Wrap(document string) string {
	return strings.Replace(p.Instruction, "%s", document, 1)
}

// PromptsFor returns the prompts for a locale, falling back to Japanese.
func PromptsFor(locale string) Prompts {
	switch locale {
	case "en", "english":
		return EnglishPrompts
	default:
		return JapanesePrompts
	}
}

var JapanesePrompts = Prompts{
	System: `あなたはポーカーエキスパートです。ユーザーから提供されたポーカーのハンド履歴を詳細に分析し、最適な戦略をアドバイスします。

分析にあたっては、以下の点を考慮してください：
1. GTO (Game Theory Optimal) 戦略に基づいた分析
2. ICM (Independent Chip Model) への考慮 - 以下のポイント配分に基づいて評価:
   - 1位: 30pt
   - 2位: 20pt
   - 3位: 10pt
   - 4位: -10pt
   - 5位: -20pt
   - 6位: -30pt
3. ヒーローのポジション、スタック、およびハンドの強さ
4. 対戦相手の可能性のあるハンドレンジ
5. ボードテクスチャとその変化
6. ポットオッズとエクイティ
7. 各アクション（チェック、ベット、レイズ、フォールド）の長所と短所

提案するアクションについては、なぜそのアクションが最適なのかを詳細に説明してください。可能な場合は、異なるサイズのベットやレイズについても言及し、それぞれのメリットを比較してください。

回答は日本語で行い、ポーカー用語は適宜英語のまま使用しても構いません。専門的な分析を提供しつつも、わかりやすい言葉で説明してください。`,
	Instruction: `以下のポーカーハンド履歴を分析し、状況に応じた最適なアクションを提案してください。

%s

最後の状況で「分析を求める」または「?」となっているところが、これから取るべきアクションです。最適なアクションを根拠とともに説明してください。

現在のポットサイズと参加プレイヤーのスタックサイズを考慮して、以下の情報を含めてください:
1. 最適なアクション（ベット、チェック、コール、レイズ、フォールドなど）
2. ベットやレイズを推奨する場合、最適なサイズとその理由
3. いくつかの代替案と、それらが最適でない理由
4. ICM（Independent Chip Model）の観点からの考察
5. プレイヤーの相対的ポジションとレンジを考慮した分析`,
}

var EnglishPrompts = Prompts{
	System: `You are a poker expert. Analyse the hand history the user provides in detail and advise on the best strategy.

Take the following into account:
1. Game Theory Optimal (GTO) strategy
2. ICM (Independent Chip Model), scored with this payout table:
   - 1st: 30pt
   - 2nd: 20pt
   - 3rd: 10pt
   - 4th: -10pt
   - 5th: -20pt
   - 6th: -30pt
3. The hero's position, stack and hand strength
4. The opponents' likely ranges
5. The board texture and how it changes
6. Pot odds and equity
7. The strengths and weaknesses of each action (check, bet, raise, fold)

Explain in detail why the recommended action is best. Where it applies, compare different bet and raise sizes and what each achieves.

Answer in English. Keep the analysis expert but the language plain.`,
	Instruction: `Analyse the following poker hand history and recommend the best action for the situation.

%s

The final spot marked "requesting analysis" or "?" is the decision to make now. Explain the best action and why.

Taking the current pot and every player's stack into account, include:
1. The best action (bet, check, call, raise, fold, ...)
2. If betting or raising, the best size and why
3. Some alternatives and why they are worse
4. Considerations from an ICM (Independent Chip Model) point of view
5. Analysis of relative positions and ranges`,
}
