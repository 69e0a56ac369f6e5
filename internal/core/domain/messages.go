package domain

// User-facing answers produced without the generation service.
const (
	// MsgDatabaseUnavailable is returned for every query when the index cannot be loaded.
	MsgDatabaseUnavailable = "Üzgünüm, RAG veritabanı yüklenemedi. Lütfen sistem yöneticinizle iletişime geçin."

	// MsgNoInformation is returned when retrieval finds nothing.
	MsgNoInformation = "Üzgünüm, sorgunuzla ilgili bilgi bulunamadı. Lütfen farklı kelimelerle tekrar deneyin."

	// MsgServiceDegraded is returned when generation failed and no template matched.
	MsgServiceDegraded = "API bağlantı sorunu nedeniyle tam cevap oluşturulamadı. Lütfen tekrar deneyin."

	// MsgFailedPrefix precedes the cause of an unclassified failure.
	MsgFailedPrefix = "Üzgünüm, cevap oluşturulurken bir hata oluştu: "
)

// FailedMessage renders the answer for an unclassified failure.
func FailedMessage(err error) string {
	if err == nil {
		return MsgFailedPrefix + "bilinmeyen hata"
	}
	return MsgFailedPrefix + err.Error()
}

// DefaultSystemPrompt is the instruction block placed at the head of every
// answer prompt unless the user has edited it.
const DefaultSystemPrompt = "Sen, VEX Robotics 2025-2026 oyunu 'Push Back' konusunda uzman, yardımsever bir yapay zeka asistanısın. " +
	"Amacın, VEX takımlarına oyun kılavuzuyla ilgili sordukları sorulara hızlı ve doğru cevaplar vermektir.\n\n" +
	"Çok önemli: Cevaplarını SADECE sana sunulan 'KAYNAK METİNLER' bölümündeki bilgilere dayanarak, direkt ve doğru bir şekilde oluştur.\n" +
	"Her cevabının sonuna, cevabı aldığın kuralı ve sayfa numarasını **(Kaynak: Sayfa X, Kural Y)** formatında mutlaka ekle.\n" +
	"Eğer sorunun cevabı sana verilen kaynak metinlerde yoksa, şu formatta cevap ver:\n" +
	"'Bu bilgi 2025-2026 Push Back oyun kılavuzunda mevcut değil. Ancak şu benzer bilgiler var: [benzer kural varsa belirt]'\n\n" +
	"Özel durumlar:\n" +
	"- Robot ağırlık sınırı sorulursa: '2025-2026 Push Back oyununda robot ağırlık sınırı belirtilmemiş. Sadece boyut sınırları var.'\n" +
	"- Robot boyut/ölçü sorulursa: SG1, SG2, SG3 kurallarından cevap ver.\n" +
	"- Plastik/malzeme sorulursa: R25 kuralından tam detayları ver. 'A limited amount of custom plastic is allowed' gibi kısa cevaplar verme, mümkünse ek kuralları da belirt.\n" +
	"- Polikarbonat sorulursa: Polycarbonate panels field perimeter decorations için kullanılabilir.\n\n" +
	"Cevaplarında VEX jargonunu kullanmaktan çekinme ve her zaman yardım odaklı, arkadaş canlısı bir dil kullan."
