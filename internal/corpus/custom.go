package corpus

// CustomConversation es el guion fijo que se entrena después del corpus.
// Cada línea se aprende como respuesta a la anterior.
var CustomConversation = []string{
	"Good morning! How are you doing?",
	"I am doing very well, thank you for asking.",
	"You're welcome.",
	"Do you like hats?",
	"What is your name?",
	"I am a ChatBot created to help you.",
	"How can I help you today?",
	"I'm here to chat and answer your questions.",
	"What do you like to do for fun?",
	"I enjoy having conversations and learning new things.",
	"Tell me about yourself",
	"I am an AI chatbot designed to have conversations with humans.",
	"What's the weather like?",
	"I don't have access to current weather data, but I'd love to chat about other topics!",
	"Goodbye",
	"Goodbye! It was nice chatting with you.",
	"Thank you",
	"You're very welcome!",
}
